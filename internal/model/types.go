package model

// -----------------------------------------------------------------------------
// Market Types
// -----------------------------------------------------------------------------

// Token is one outcome token of a market.
type Token struct {
	TokenID string  `json:"token_id"` // ERC1155 token id
	Outcome string  `json:"outcome"`  // Outcome label (e.g., "Yes")
	Price   float64 `json:"price"`    // Last price, 0-1
	Winner  bool    `json:"winner"`   // Set once the market resolves
}

// RewardRate is the daily liquidity reward paid in one asset.
type RewardRate struct {
	AssetAddress     string  `json:"asset_address"`
	RewardsDailyRate float64 `json:"rewards_daily_rate"`
}

// Rewards describes the liquidity reward program of a market.
type Rewards struct {
	Rates     []RewardRate `json:"rates"`
	MinSize   float64      `json:"min_size"`   // Minimum order size to qualify
	MaxSpread float64      `json:"max_spread"` // Max distance from midpoint, in cents
}

// RewardsConfig is a single reward campaign attached to a rewards market.
type RewardsConfig struct {
	AssetAddress string  `json:"asset_address"`
	StartDate    string  `json:"start_date"`
	EndDate      string  `json:"end_date"`
	ID           int64   `json:"id"`
	RatePerDay   float64 `json:"rate_per_day"`
	TotalRewards float64 `json:"total_rewards"`
	TotalDays    int64   `json:"total_days"`
}

// Market is the full market record from GET /markets.
type Market struct {
	EnableOrderBook         bool     `json:"enable_order_book"`
	Active                  bool     `json:"active"`
	Closed                  bool     `json:"closed"`
	Archived                bool     `json:"archived"`
	AcceptingOrders         bool     `json:"accepting_orders"`
	AcceptingOrderTimestamp string   `json:"accepting_order_timestamp"`
	MinimumOrderSize        float64  `json:"minimum_order_size"`
	MinimumTickSize         float64  `json:"minimum_tick_size"`
	ConditionID             string   `json:"condition_id"`
	QuestionID              string   `json:"question_id"`
	Question                string   `json:"question"`
	Description             string   `json:"description"`
	MarketSlug              string   `json:"market_slug"`
	EndDateISO              string   `json:"end_date_iso"`
	GameStartTime           *string  `json:"game_start_time"`
	SecondsDelay            int64    `json:"seconds_delay"`
	FPMM                    *string  `json:"fpmm"`
	MakerBaseFee            float64  `json:"maker_base_fee"`
	TakerBaseFee            float64  `json:"taker_base_fee"`
	NotificationsEnabled    bool     `json:"notifications_enabled"`
	NegRisk                 bool     `json:"neg_risk"`
	NegRiskMarketID         *string  `json:"neg_risk_market_id"`
	NegRiskRequestID        *string  `json:"neg_risk_request_id"`
	Icon                    string   `json:"icon"`
	Image                   string   `json:"image"`
	Rewards                 Rewards  `json:"rewards"`
	Is5050Outcome           bool     `json:"is_50_50_outcome"`
	Tokens                  []Token  `json:"tokens"`
	Tags                    []string `json:"tags"`
}

// SimplifiedMarket is the reduced market record from GET /simplified-markets.
type SimplifiedMarket struct {
	ConditionID        string  `json:"condition_id"`
	Tokens             []Token `json:"tokens"`
	Rewards            Rewards `json:"rewards"`
	MinIncentiveSize   string  `json:"min_incentive_size"`
	MaxIncentiveSpread string  `json:"max_incentive_spread"`
	Active             bool    `json:"active"`
	Closed             bool    `json:"closed"`
}

// RewardsMarket is a market currently paying liquidity rewards.
type RewardsMarket struct {
	ConditionID      string        `json:"condition_id"`
	Question         string        `json:"question"`
	MarketSlug       string        `json:"market_slug"`
	EventSlug        string        `json:"event_slug"`
	Image            string        `json:"image"`
	Tokens           []Token       `json:"tokens"`
	RewardsConfig    RewardsConfig `json:"rewards_config"`
	RewardsMaxSpread float64       `json:"rewards_max_spread"`
	RewardsMinSize   float64       `json:"rewards_min_size"`
}

// -----------------------------------------------------------------------------
// Time-Series Types
// -----------------------------------------------------------------------------

// TimeSeriesPoint is one sample of a token's price history.
// The exchange sends it as {"t": <unix seconds>, "p": <price>}.
type TimeSeriesPoint struct {
	Timestamp int64   `json:"t"`
	Price     float64 `json:"p"`
}
