package decode

import (
	"github.com/rickgao/polymarket-clob/internal/model"
)

// ReadToken reads a model.Token.
func ReadToken(f *Fields) model.Token {
	return model.Token{
		TokenID: f.String(keyTokenID),
		Outcome: f.String(keyOutcome),
		Price:   f.Float(keyPrice),
		Winner:  f.Bool(keyWinner),
	}
}

// ReadRewardRate reads a model.RewardRate.
func ReadRewardRate(f *Fields) model.RewardRate {
	return model.RewardRate{
		AssetAddress:     f.String(keyAssetAddress),
		RewardsDailyRate: f.Float(keyRewardsDailyRate),
	}
}

// ReadRewards reads a model.Rewards and its rates.
func ReadRewards(f *Fields) model.Rewards {
	return model.Rewards{
		Rates:     Records(f, keyRates, ReadRewardRate),
		MinSize:   f.Float(keyMinSize),
		MaxSpread: f.Float(keyMaxSpread),
	}
}

// ReadRewardsConfig reads a model.RewardsConfig.
func ReadRewardsConfig(f *Fields) model.RewardsConfig {
	return model.RewardsConfig{
		AssetAddress: f.String(keyAssetAddress),
		StartDate:    f.String(keyStartDate),
		EndDate:      f.String(keyEndDate),
		ID:           f.Int(keyID),
		RatePerDay:   f.Float(keyRatePerDay),
		TotalRewards: f.Float(keyTotalRewards),
		TotalDays:    f.Int(keyTotalDays),
	}
}

// ReadOrderSummary reads one book level. Price and size must be strings.
func ReadOrderSummary(f *Fields) model.OrderSummary {
	return model.OrderSummary{
		Price: f.String(keyPrice),
		Size:  f.String(keySize),
	}
}

// ReadOrderBookSummary reads a book and both of its sides.
func ReadOrderBookSummary(f *Fields) model.OrderBookSummary {
	return model.OrderBookSummary{
		Market:    f.String(keyMarket),
		AssetID:   f.String(keyAssetID),
		Timestamp: f.String(keyTimestamp),
		Bids:      Records(f, keyBids, ReadOrderSummary),
		Asks:      Records(f, keyAsks, ReadOrderSummary),
		Hash:      f.String(keyHash),
	}
}

// ReadMarket reads a model.Market.
func ReadMarket(f *Fields) model.Market {
	return model.Market{
		EnableOrderBook:         f.Bool(keyEnableOrderBook),
		Active:                  f.Bool(keyActive),
		Closed:                  f.Bool(keyClosed),
		Archived:                f.Bool(keyArchived),
		AcceptingOrders:         f.Bool(keyAcceptingOrders),
		AcceptingOrderTimestamp: f.String(keyAcceptingOrderTimestamp),
		MinimumOrderSize:        f.Float(keyMinimumOrderSize),
		MinimumTickSize:         f.Float(keyMinimumTickSize),
		ConditionID:             f.String(keyConditionID),
		QuestionID:              f.String(keyQuestionID),
		Question:                f.String(keyQuestion),
		Description:             f.String(keyDescription),
		MarketSlug:              f.String(keyMarketSlug),
		EndDateISO:              f.String(keyEndDateISO),
		GameStartTime:           f.OptString(keyGameStartTime),
		SecondsDelay:            f.Int(keySecondsDelay),
		FPMM:                    f.OptString(keyFPMM),
		MakerBaseFee:            f.Float(keyMakerBaseFee),
		TakerBaseFee:            f.Float(keyTakerBaseFee),
		NotificationsEnabled:    f.Bool(keyNotificationsEnabled),
		NegRisk:                 f.Bool(keyNegRisk),
		NegRiskMarketID:         f.OptString(keyNegRiskMarketID),
		NegRiskRequestID:        f.OptString(keyNegRiskRequestID),
		Icon:                    f.String(keyIcon),
		Image:                   f.String(keyImage),
		Rewards:                 Record(f, keyRewards, ReadRewards),
		Is5050Outcome:           f.Bool(keyIs5050Outcome),
		Tokens:                  Records(f, keyTokens, ReadToken),
		Tags:                    f.Strings(keyTags),
	}
}

// ReadSimplifiedMarket reads a model.SimplifiedMarket.
func ReadSimplifiedMarket(f *Fields) model.SimplifiedMarket {
	return model.SimplifiedMarket{
		ConditionID:        f.String(keyConditionID),
		Tokens:             Records(f, keyTokens, ReadToken),
		Rewards:            Record(f, keyRewards, ReadRewards),
		MinIncentiveSize:   f.String(keyMinIncentiveSize),
		MaxIncentiveSpread: f.String(keyMaxIncentiveSpread),
		Active:             f.Bool(keyActive),
		Closed:             f.Bool(keyClosed),
	}
}

// ReadRewardsMarket reads a model.RewardsMarket.
func ReadRewardsMarket(f *Fields) model.RewardsMarket {
	return model.RewardsMarket{
		ConditionID:      f.String(keyConditionID),
		Question:         f.String(keyQuestion),
		MarketSlug:       f.String(keyMarketSlug),
		EventSlug:        f.String(keyEventSlug),
		Image:            f.String(keyImage),
		Tokens:           Records(f, keyTokens, ReadToken),
		RewardsConfig:    Record(f, keyRewardsConfig, ReadRewardsConfig),
		RewardsMaxSpread: f.Float(keyRewardsMaxSpread),
		RewardsMinSize:   f.Float(keyRewardsMinSize),
	}
}

// ReadTimeSeriesPoint reads a price-history sample from its short keys.
func ReadTimeSeriesPoint(f *Fields) model.TimeSeriesPoint {
	return model.TimeSeriesPoint{
		Timestamp: f.Int(keyPointTimestamp),
		Price:     f.Float(keyPointPrice),
	}
}
