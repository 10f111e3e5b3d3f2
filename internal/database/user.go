package database

import (
	"strings"
	"time"

	"github.com/crossfun/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (d *Database) SaveUser(user *models.User) error {
	return d.db.Create(user).Error
}

// UpdateUser persists the user and replaces its wallet list so wallet
// add/remove/flag changes made in memory reach the store.
func (d *Database) UpdateUser(user *models.User) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Wallet{}).Error; err != nil {
			return err
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(user).Error
	})
}

// UpdateUserFields updates selected columns without touching wallets.
func (d *Database) UpdateUserFields(id string, fields map[string]interface{}) (*models.User, error) {
	if err := d.db.Model(&models.User{}).Where("id = ?", id).Updates(fields).Error; err != nil {
		return nil, err
	}
	return d.GetUser(id)
}

func (d *Database) GetUser(id string) (*models.User, error) {
	user := models.User{}
	if err := d.db.Preload("Wallets").First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *Database) FindUserByEmail(email string) (*models.User, error) {
	user := models.User{}
	if err := d.db.Preload("Wallets").Where("email = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *Database) FindUserByUsername(username string) (*models.User, error) {
	user := models.User{}
	if err := d.db.Preload("Wallets").Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindUserByIdentifier resolves a login identifier as username or email.
func (d *Database) FindUserByIdentifier(identifier string) (*models.User, error) {
	user := models.User{}
	err := d.db.Preload("Wallets").
		Where("username = ? OR email = ?", identifier, strings.ToLower(identifier)).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindUserByWallet looks an account up by any of its wallet addresses.
func (d *Database) FindUserByWallet(addr models.Address) (*models.User, error) {
	wallet := models.Wallet{}
	if err := d.db.Where("address = ?", addr).First(&wallet).Error; err != nil {
		return nil, err
	}
	return d.GetUser(wallet.UserID.String())
}

type UserFilter struct {
	Role     models.Role
	Verified *bool
	Active   *bool
	Search   string
}

func (d *Database) ListUsers(f UserFilter, offset, limit int) ([]models.User, int64, error) {
	query := d.db.Model(&models.User{})
	if f.Role != "" {
		query = query.Where("role = ?", f.Role)
	}
	if f.Verified != nil {
		query = query.Where("is_verified = ?", *f.Verified)
	}
	if f.Active != nil {
		query = query.Where("is_active = ?", *f.Active)
	}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		query = query.Where("username ILIKE ? OR email ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	err := query.Preload("Wallets").
		Order(clause.OrderByColumn{Column: clause.Column{Name: "created_at"}, Desc: true}).
		Offset(offset).Limit(limit).
		Find(&users).Error
	return users, total, err
}

func (d *Database) TopCreators(limit int) ([]models.User, error) {
	var users []models.User
	err := d.db.Preload("Wallets").
		Where("is_active = ? AND is_banned = ?", true, false).
		Order("tokens_created DESC, total_volume_usd DESC").
		Limit(limit).
		Find(&users).Error
	return users, err
}

func (d *Database) UpdateLastLogin(id string) error {
	return d.db.Model(&models.User{}).Where("id = ?", id).Update("last_login_at", time.Now()).Error
}
