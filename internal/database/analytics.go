package database

import (
	"sort"
	"time"

	"github.com/crossfun/backend/internal/models"
)

// PlatformOverview is the headline aggregate for the analytics dashboard.
type PlatformOverview struct {
	TotalTokens       int64   `json:"totalTokens"`
	ActiveTokens      int64   `json:"activeTokens"`
	TotalUsers        int64   `json:"totalUsers"`
	TotalTransactions int64   `json:"totalTransactions"`
	TotalVolumeUSD    float64 `json:"totalVolumeUsd"`
	TotalLiquidityUSD float64 `json:"totalLiquidityUsd"`
}

func (d *Database) Overview() (*PlatformOverview, error) {
	var o PlatformOverview
	if err := d.db.Model(&models.Token{}).Count(&o.TotalTokens).Error; err != nil {
		return nil, err
	}
	if err := d.db.Model(&models.Token{}).Where("is_active = ?", true).Count(&o.ActiveTokens).Error; err != nil {
		return nil, err
	}
	if err := d.db.Model(&models.User{}).Where("is_active = ?", true).Count(&o.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := d.db.Model(&models.Transaction{}).Count(&o.TotalTransactions).Error; err != nil {
		return nil, err
	}
	if err := d.db.Model(&models.Token{}).
		Select("COALESCE(SUM(CAST(volume24h_usd AS numeric)), 0)").
		Scan(&o.TotalVolumeUSD).Error; err != nil {
		return nil, err
	}
	if err := d.db.Model(&models.Token{}).
		Select("COALESCE(SUM(CAST(total_liquidity_usd AS numeric)), 0)").
		Scan(&o.TotalLiquidityUSD).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// ChainStat aggregates tokens and volume per chain.
type ChainStat struct {
	ChainID    int     `json:"chainId"`
	TokenCount int64   `json:"tokenCount"`
	VolumeUSD  float64 `json:"volumeUsd"`
}

func (d *Database) StatsByChain() ([]ChainStat, error) {
	var stats []ChainStat
	err := d.db.Model(&models.Token{}).
		Select(`chain_id,
			COUNT(*) AS token_count,
			COALESCE(SUM(CAST(volume24h_usd AS numeric)), 0) AS volume_usd`).
		Group("chain_id").
		Order("volume_usd DESC").
		Scan(&stats).Error
	return stats, err
}

// DailyStat is one day of platform activity.
type DailyStat struct {
	Day          time.Time `json:"day"`
	NewTokens    int64     `json:"newTokens"`
	NewUsers     int64     `json:"newUsers"`
	Transactions int64     `json:"transactions"`
}

func (d *Database) DailyStats(from, to time.Time) ([]DailyStat, error) {
	byDay := map[time.Time]*DailyStat{}

	type bucket struct {
		Day   time.Time
		Count int64
	}
	get := func(day time.Time) *DailyStat {
		if s, ok := byDay[day]; ok {
			return s
		}
		s := &DailyStat{Day: day}
		byDay[day] = s
		return s
	}

	var rows []bucket
	if err := d.db.Model(&models.Token{}).
		Select("DATE_TRUNC('day', created_at) AS day, COUNT(*) AS count").
		Where("created_at BETWEEN ? AND ?", from, to).
		Group("day").Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		get(r.Day).NewTokens = r.Count
	}

	rows = rows[:0]
	if err := d.db.Model(&models.User{}).
		Select("DATE_TRUNC('day', created_at) AS day, COUNT(*) AS count").
		Where("created_at BETWEEN ? AND ?", from, to).
		Group("day").Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		get(r.Day).NewUsers = r.Count
	}

	rows = rows[:0]
	if err := d.db.Model(&models.Transaction{}).
		Select("DATE_TRUNC('day', block_timestamp) AS day, COUNT(*) AS count").
		Where("block_timestamp BETWEEN ? AND ?", from, to).
		Group("day").Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		get(r.Day).Transactions = r.Count
	}

	stats := make([]DailyStat, 0, len(byDay))
	for _, s := range byDay {
		stats = append(stats, *s)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Day.Before(stats[j].Day) })
	return stats, nil
}

// UserAnalytics summarizes one user's trading footprint across their wallets.
type UserAnalytics struct {
	TokensCreated    int64   `json:"tokensCreated"`
	TransactionCount int64   `json:"transactionCount"`
	VolumeUSD        float64 `json:"volumeUsd"`
	MessagesPosted   int64   `json:"messagesPosted"`
}

func (d *Database) AnalyticsForUser(user *models.User) (*UserAnalytics, error) {
	addrs := make([]models.Address, 0, len(user.Wallets))
	for _, w := range user.Wallets {
		addrs = append(addrs, w.Address)
	}

	var a UserAnalytics
	if err := d.db.Model(&models.ChatMessage{}).
		Where("user_id = ? AND is_deleted = ?", user.ID, false).
		Count(&a.MessagesPosted).Error; err != nil {
		return nil, err
	}
	if len(addrs) == 0 {
		return &a, nil
	}

	if err := d.db.Model(&models.Token{}).
		Where("creator_address IN ?", addrs).
		Count(&a.TokensCreated).Error; err != nil {
		return nil, err
	}
	if err := d.db.Model(&models.Transaction{}).
		Where("sender_address IN ? OR recipient_address IN ?", addrs, addrs).
		Count(&a.TransactionCount).Error; err != nil {
		return nil, err
	}
	if err := d.db.Model(&models.Transaction{}).
		Select("COALESCE(SUM(CAST(token_price_usd AS numeric) * CAST(token_amount AS numeric)), 0)").
		Where("status = ?", models.TxConfirmed).
		Where("sender_address IN ? OR recipient_address IN ?", addrs, addrs).
		Scan(&a.VolumeUSD).Error; err != nil {
		return nil, err
	}
	return &a, nil
}
