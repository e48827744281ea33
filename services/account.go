package services

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Kariqs/farmers-market-api/apperr"
	"github.com/Kariqs/farmers-market-api/models"
)

const (
	minPasswordLength = 8

	msgInvalidCredentials = "invalid email or password"
	msgUserAlreadyExists  = "an account with this email already exists"
)

type AccountService struct {
	db         *gorm.DB
	adminEmail string
	bcryptCost int
}

// NewAccountService uses bcrypt.DefaultCost when cost is zero.
func NewAccountService(db *gorm.DB, adminEmail string, cost int) *AccountService {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &AccountService{
		db:         db,
		adminEmail: normalizeEmail(adminEmail),
		bcryptCost: cost,
	}
}

func (s *AccountService) Register(ctx context.Context, in models.Registration) (models.Account, error) {
	in.Email = normalizeEmail(in.Email)
	in.Firstname = strings.TrimSpace(in.Firstname)
	in.Lastname = strings.TrimSpace(in.Lastname)
	if err := validateRegistration(in); err != nil {
		return models.Account{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return models.Account{}, apperr.Internal("failed to hash password", err)
	}

	account := models.Account{
		Firstname: in.Firstname,
		Lastname:  in.Lastname,
		Email:     in.Email,
		PhoneNo:   in.PhoneNo,
		Address:   in.Address,
		Password:  string(hashed),
		Role:      s.roleFor(in),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Account{}).Where("email = ?", account.Email).Count(&count).Error; err != nil {
			return apperr.Internal("failed to check existing account", err)
		}
		if count > 0 {
			return apperr.New(apperr.ErrConflict, msgUserAlreadyExists)
		}

		if account.Role == models.RoleSeller {
			seller := models.Seller{
				Firstname: account.Firstname,
				Lastname:  account.Lastname,
				Email:     account.Email,
				PhoneNo:   account.PhoneNo,
				Address:   account.Address,
			}
			if err := tx.Omit(clause.Associations).Create(&seller).Error; err != nil {
				if apperr.IsDuplicateKey(err) {
					return apperr.New(apperr.ErrConflict, "a seller with this email already exists")
				}
				return apperr.Internal("failed to create seller", err)
			}
			account.SellerID = &seller.ID
		}

		if err := tx.Omit(clause.Associations).Create(&account).Error; err != nil {
			if apperr.IsDuplicateKey(err) {
				return apperr.New(apperr.ErrConflict, msgUserAlreadyExists)
			}
			return apperr.Internal("failed to create account", err)
		}
		return nil
	})
	if err != nil {
		return models.Account{}, passThrough("failed to register account", err)
	}
	return account, nil
}

// Authenticate never tells callers which half of the credentials was wrong.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (models.Account, error) {
	var account models.Account
	err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Account{}, apperr.New(apperr.ErrUnauthenticated, msgInvalidCredentials)
	}
	if err != nil {
		return models.Account{}, apperr.Internal("failed to load account", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(password)); err != nil {
		return models.Account{}, apperr.New(apperr.ErrUnauthenticated, msgInvalidCredentials)
	}
	return account, nil
}

func (s *AccountService) Get(ctx context.Context, id uint) (models.Account, error) {
	var account models.Account
	if err := s.db.WithContext(ctx).First(&account, id).Error; err != nil {
		return models.Account{}, lookupError("account", err)
	}
	return account, nil
}

func (s *AccountService) roleFor(in models.Registration) string {
	if s.adminEmail != "" && in.Email == s.adminEmail {
		return models.RoleAdmin
	}
	if strings.EqualFold(in.UserType, models.RoleSeller) {
		return models.RoleSeller
	}
	return models.RoleBuyer
}

func validateRegistration(in models.Registration) error {
	switch {
	case in.Firstname == "" || in.Lastname == "":
		return apperr.New(apperr.ErrValidation, "first and last name are required")
	case in.Email == "" || !strings.Contains(in.Email, "@"):
		return apperr.New(apperr.ErrValidation, "a valid email is required")
	case len(in.Password) < minPasswordLength:
		return apperr.New(apperr.ErrValidation, "password must be at least 8 characters")
	}
	switch strings.ToUpper(in.UserType) {
	case "", models.RoleBuyer, models.RoleSeller:
		return nil
	default:
		return apperr.New(apperr.ErrValidation, "userType must be BUYER or SELLER")
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
