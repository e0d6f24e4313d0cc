package decode

import (
	"github.com/rickgao/polymarket-clob/internal/model"
)

// Token decodes a model.Token.
func (d Decoder) Token(m Mapping) (model.Token, error) { return Read(d, m, ReadToken) }

// RewardRate decodes a model.RewardRate.
func (d Decoder) RewardRate(m Mapping) (model.RewardRate, error) { return Read(d, m, ReadRewardRate) }

// Rewards decodes a model.Rewards.
func (d Decoder) Rewards(m Mapping) (model.Rewards, error) { return Read(d, m, ReadRewards) }

// RewardsConfig decodes a model.RewardsConfig.
func (d Decoder) RewardsConfig(m Mapping) (model.RewardsConfig, error) {
	return Read(d, m, ReadRewardsConfig)
}

// OrderSummary decodes a model.OrderSummary.
func (d Decoder) OrderSummary(m Mapping) (model.OrderSummary, error) {
	return Read(d, m, ReadOrderSummary)
}

// OrderBookSummary decodes a model.OrderBookSummary.
func (d Decoder) OrderBookSummary(m Mapping) (model.OrderBookSummary, error) {
	return Read(d, m, ReadOrderBookSummary)
}

// Market decodes a model.Market.
func (d Decoder) Market(m Mapping) (model.Market, error) { return Read(d, m, ReadMarket) }

// SimplifiedMarket decodes a model.SimplifiedMarket.
func (d Decoder) SimplifiedMarket(m Mapping) (model.SimplifiedMarket, error) {
	return Read(d, m, ReadSimplifiedMarket)
}

// RewardsMarket decodes a model.RewardsMarket.
func (d Decoder) RewardsMarket(m Mapping) (model.RewardsMarket, error) {
	return Read(d, m, ReadRewardsMarket)
}

// TimeSeriesPoint decodes a model.TimeSeriesPoint.
func (d Decoder) TimeSeriesPoint(m Mapping) (model.TimeSeriesPoint, error) {
	return Read(d, m, ReadTimeSeriesPoint)
}

// MarketList decodes a sequence of markets.
func (d Decoder) MarketList(seq any) ([]model.Market, error) { return ReadList(d, seq, ReadMarket) }

// TimeSeries decodes a sequence of price-history samples.
func (d Decoder) TimeSeries(seq any) ([]model.TimeSeriesPoint, error) {
	return ReadList(d, seq, ReadTimeSeriesPoint)
}

// OrderBookList decodes a sequence of books, as returned by POST /books.
func (d Decoder) OrderBookList(seq any) ([]model.OrderBookSummary, error) {
	return ReadList(d, seq, ReadOrderBookSummary)
}

// Package-level shorthands using a lenient, untraced Decoder.

func Token(m Mapping) (model.Token, error) { return Decoder{}.Token(m) }
func RewardRate(m Mapping) (model.RewardRate, error) { return Decoder{}.RewardRate(m) }
func Rewards(m Mapping) (model.Rewards, error) { return Decoder{}.Rewards(m) }
func RewardsConfig(m Mapping) (model.RewardsConfig, error) { return Decoder{}.RewardsConfig(m) }
func OrderSummary(m Mapping) (model.OrderSummary, error) { return Decoder{}.OrderSummary(m) }
func Market(m Mapping) (model.Market, error) { return Decoder{}.Market(m) }
func RewardsMarket(m Mapping) (model.RewardsMarket, error) { return Decoder{}.RewardsMarket(m) }

func OrderBookSummary(m Mapping) (model.OrderBookSummary, error) {
	return Decoder{}.OrderBookSummary(m)
}

func SimplifiedMarket(m Mapping) (model.SimplifiedMarket, error) {
	return Decoder{}.SimplifiedMarket(m)
}

func TimeSeriesPoint(m Mapping) (model.TimeSeriesPoint, error) {
	return Decoder{}.TimeSeriesPoint(m)
}
