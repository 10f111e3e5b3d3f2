package database

import (
	"fmt"

	"github.com/crossfun/backend/internal/models"
)

type TokenFilter struct {
	ChainID  int
	Verified *bool
	Active   *bool
	Search   string
}

// tokenSortColumns maps API sort fields to columns. Numeric-string fields
// are cast so ordering is numeric, not lexicographic.
var tokenSortColumns = map[string]string{
	"createdAt":             "created_at",
	"currentPriceUSD":       "CAST(current_price_usd AS numeric)",
	"marketCapUSD":          "CAST(market_cap_usd AS numeric)",
	"volume24hUSD":          "CAST(volume24h_usd AS numeric)",
	"priceChange24hPercent": "CAST(price_change24h_percent AS numeric)",
	"totalLiquidityUSD":     "CAST(total_liquidity_usd AS numeric)",
}

func TokenSortColumn(field string) (string, bool) {
	col, ok := tokenSortColumns[field]
	return col, ok
}

func (d *Database) CreateToken(token *models.Token) error {
	return d.db.Create(token).Error
}

func (d *Database) GetTokenByAddress(addr models.Address) (*models.Token, error) {
	var token models.Token
	if err := d.db.Where("address = ?", addr).First(&token).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

func (d *Database) UpdateToken(token *models.Token) error {
	return d.db.Save(token).Error
}

func (d *Database) UpdateTokenFields(addr models.Address, fields map[string]interface{}) (*models.Token, error) {
	res := d.db.Model(&models.Token{}).Where("address = ?", addr).Updates(fields)
	if res.Error != nil {
		return nil, res.Error
	}
	return d.GetTokenByAddress(addr)
}

func (d *Database) ListTokens(f TokenFilter, sortBy, sortOrder string, offset, limit int) ([]models.Token, int64, error) {
	query := d.db.Model(&models.Token{})
	if f.ChainID > 0 {
		query = query.Where("chain_id = ?", f.ChainID)
	}
	if f.Verified != nil {
		query = query.Where("is_verified = ?", *f.Verified)
	}
	if f.Active != nil {
		query = query.Where("is_active = ?", *f.Active)
	}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		query = query.Where("name ILIKE ? OR symbol ILIKE ? OR description ILIKE ?", pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	col, ok := TokenSortColumn(sortBy)
	if !ok {
		col = "created_at"
	}
	dir := "DESC"
	if sortOrder == "asc" {
		dir = "ASC"
	}

	var tokens []models.Token
	err := query.Order(fmt.Sprintf("%s %s", col, dir)).Offset(offset).Limit(limit).Find(&tokens).Error
	return tokens, total, err
}

func (d *Database) TrendingTokens(limit int) ([]models.Token, error) {
	var tokens []models.Token
	err := d.db.Where("is_active = ?", true).
		Order("CAST(volume24h_usd AS numeric) DESC, CAST(price_change24h_percent AS numeric) DESC").
		Limit(limit).
		Find(&tokens).Error
	return tokens, err
}

func (d *Database) RecentTokens(limit int) ([]models.Token, error) {
	var tokens []models.Token
	err := d.db.Where("is_active = ?", true).
		Order("created_at DESC").
		Limit(limit).
		Find(&tokens).Error
	return tokens, err
}

func (d *Database) TokensByCreator(addr models.Address, offset, limit int) ([]models.Token, int64, error) {
	query := d.db.Model(&models.Token{}).Where("creator_address = ?", addr)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tokens []models.Token
	err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&tokens).Error
	return tokens, total, err
}

func (d *Database) TokensByCreators(addrs []models.Address, offset, limit int) ([]models.Token, int64, error) {
	query := d.db.Model(&models.Token{}).Where("creator_address IN ?", addrs)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tokens []models.Token
	err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&tokens).Error
	return tokens, total, err
}

// SearchTokens matches name, symbol, description or address and ranks by
// market cap, then volume.
func (d *Database) SearchTokens(q string, offset, limit int) ([]models.Token, int64, error) {
	pattern := "%" + q + "%"
	query := d.db.Model(&models.Token{}).
		Where("is_active = ?", true).
		Where("name ILIKE ? OR symbol ILIKE ? OR description ILIKE ? OR address ILIKE ?",
			pattern, pattern, pattern, pattern)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tokens []models.Token
	err := query.Order("CAST(market_cap_usd AS numeric) DESC, CAST(volume24h_usd AS numeric) DESC").
		Offset(offset).Limit(limit).
		Find(&tokens).Error
	return tokens, total, err
}

func (d *Database) TokensWithLiquidity(minLiquidity float64, offset, limit int) ([]models.Token, int64, error) {
	query := d.db.Model(&models.Token{}).
		Where("is_active = ?", true).
		Where("CAST(total_liquidity_usd AS numeric) > ?", minLiquidity)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tokens []models.Token
	err := query.Order("CAST(total_liquidity_usd AS numeric) DESC, CAST(volume24h_usd AS numeric) DESC").
		Offset(offset).Limit(limit).
		Find(&tokens).Error
	return tokens, total, err
}

func (d *Database) TokensWithoutLiquidity(offset, limit int) ([]models.Token, int64, error) {
	query := d.db.Model(&models.Token{}).
		Where("is_active = ?", true).
		Where("total_liquidity = '0' OR total_liquidity IS NULL")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tokens []models.Token
	err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&tokens).Error
	return tokens, total, err
}

func (d *Database) CountActiveTokens() (int64, error) {
	var n int64
	err := d.db.Model(&models.Token{}).Where("is_active = ?", true).Count(&n).Error
	return n, err
}

func (d *Database) TouchTokenActivity(addr models.Address) error {
	return d.db.Model(&models.Token{}).Where("address = ?", addr).
		Update("latest_transaction_timestamp", d.db.NowFunc()).Error
}
