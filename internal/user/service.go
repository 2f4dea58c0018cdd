package user

import (
	"context"
	"fmt"
	"strconv"

	"github.com/PrjctQ/qcore/pkg/config"
	"github.com/PrjctQ/qcore/pkg/dao"
	"github.com/PrjctQ/qcore/pkg/dto"
	"github.com/PrjctQ/qcore/pkg/logger"
	"github.com/PrjctQ/qcore/pkg/schema"
	"github.com/PrjctQ/qcore/pkg/service"
	"github.com/PrjctQ/qcore/pkg/token"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// NewSchema declares the user schema. Field names are the JSON keys and the
// database column names.
func NewSchema() (*schema.Schema, error) {
	return schema.New(schema.Config{
		IDField:         "id",
		CreatedAtField:  "created_at",
		UpdatedAtField:  "updated_at",
		SoftDeleteField: "is_deleted",
		Fields: map[string]string{
			"id":         "omitempty",
			"email":      "required,email",
			"password":   "required,min=8",
			"created_at": "omitempty",
			"updated_at": "omitempty",
			"is_deleted": "omitempty",
		},
	})
}

// Service wraps the generic CRUD service with password hashing and login.
type Service struct {
	*service.Service[User]
	cfg    *config.Config
	tokens token.Manager
}

// NewService builds the schema, DTO (password omitted from output), DAO and
// generic service for the user resource.
func NewService(db *gorm.DB, cfg *config.Config, tokens token.Manager) (*Service, error) {
	s, err := NewSchema()
	if err != nil {
		return nil, fmt.Errorf("user schema: %w", err)
	}

	userDTO := dto.New(s, "password")
	userDAO := dao.New[User](db, s.Config())

	return &Service{
		Service: service.New(userDTO, userDAO),
		cfg:     cfg,
		tokens:  tokens,
	}, nil
}

// Create validates input, hashes the password with the configured cost
// factor and persists the user. Validation runs on the raw password so
// length rules apply before hashing.
func (s *Service) Create(ctx context.Context, input map[string]any) (map[string]any, error) {
	data, err := s.DTO().ToCreateDTO(input)
	if err != nil {
		return nil, err
	}

	password, _ := data["password"].(string)
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.Auth.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	data["password"] = string(hashed)

	return s.Insert(ctx, data)
}

// Login checks credentials and issues a signed token.
func (s *Service) Login(ctx context.Context, email, password string) (map[string]any, error) {
	log := logger.FromContext(ctx)

	record, err := s.DAO().FindOne(ctx, map[string]any{"email": email}, dao.QueryOptions{})
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if record == nil {
		// Security: don't reveal whether the email exists
		log.Warn("login failed - email not found", "email", logger.MaskEmail(email))
		return nil, errIncorrectCredentials()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(record.Password), []byte(password)); err != nil {
		log.Warn("login failed - invalid password", "email", logger.MaskEmail(email))
		return nil, errIncorrectCredentials()
	}

	signed, err := s.tokens.Generate(strconv.FormatUint(uint64(record.ID), 10), record.Email)
	if err != nil {
		log.Error("token generation failed", "error", err)
		return nil, fmt.Errorf("generate token: %w", err)
	}

	log.Info("login succeeded", "email", logger.MaskEmail(email))

	return map[string]any{"token": signed}, nil
}
