package decode

// Source keys, one per record field. Every key equals the snake_case field
// name except the price-history sample, whose keys are shortened on the wire.
const (
	// Token
	keyTokenID = "token_id"
	keyOutcome = "outcome"
	keyPrice   = "price"
	keyWinner  = "winner"

	// RewardRate, Rewards, RewardsConfig
	keyAssetAddress     = "asset_address"
	keyRewardsDailyRate = "rewards_daily_rate"
	keyRates            = "rates"
	keyMinSize          = "min_size"
	keyMaxSpread        = "max_spread"
	keyStartDate        = "start_date"
	keyEndDate          = "end_date"
	keyID               = "id"
	keyRatePerDay       = "rate_per_day"
	keyTotalRewards     = "total_rewards"
	keyTotalDays        = "total_days"

	// OrderSummary, OrderBookSummary
	keySize      = "size"
	keyMarket    = "market"
	keyAssetID   = "asset_id"
	keyTimestamp = "timestamp"
	keyBids      = "bids"
	keyAsks      = "asks"
	keyHash      = "hash"

	// Market, SimplifiedMarket, RewardsMarket
	keyEnableOrderBook         = "enable_order_book"
	keyActive                  = "active"
	keyClosed                  = "closed"
	keyArchived                = "archived"
	keyAcceptingOrders         = "accepting_orders"
	keyAcceptingOrderTimestamp = "accepting_order_timestamp"
	keyMinimumOrderSize        = "minimum_order_size"
	keyMinimumTickSize         = "minimum_tick_size"
	keyConditionID             = "condition_id"
	keyQuestionID              = "question_id"
	keyQuestion                = "question"
	keyDescription             = "description"
	keyMarketSlug              = "market_slug"
	keyEndDateISO              = "end_date_iso"
	keyGameStartTime           = "game_start_time"
	keySecondsDelay            = "seconds_delay"
	keyFPMM                    = "fpmm"
	keyMakerBaseFee            = "maker_base_fee"
	keyTakerBaseFee            = "taker_base_fee"
	keyNotificationsEnabled    = "notifications_enabled"
	keyNegRisk                 = "neg_risk"
	keyNegRiskMarketID         = "neg_risk_market_id"
	keyNegRiskRequestID        = "neg_risk_request_id"
	keyIcon                    = "icon"
	keyImage                   = "image"
	keyRewards                 = "rewards"
	keyIs5050Outcome           = "is_50_50_outcome"
	keyTokens                  = "tokens"
	keyTags                    = "tags"
	keyMinIncentiveSize        = "min_incentive_size"
	keyMaxIncentiveSpread      = "max_incentive_spread"
	keyEventSlug               = "event_slug"
	keyRewardsConfig           = "rewards_config"
	keyRewardsMaxSpread        = "rewards_max_spread"
	keyRewardsMinSize          = "rewards_min_size"

	// TimeSeriesPoint
	keyPointTimestamp = "t"
	keyPointPrice     = "p"
)
