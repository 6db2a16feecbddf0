package businessflow

import (
	"context"
	"encoding/json"

	"github.com/surtimax/cost-approvals/app/dto"
	"github.com/surtimax/cost-approvals/app/services"
	"github.com/surtimax/cost-approvals/models"
	"github.com/surtimax/cost-approvals/repository"
	"github.com/surtimax/cost-approvals/utils"
	"golang.org/x/crypto/bcrypt"
)

// AuthFlow represents the console authentication flow used by handlers
type AuthFlow interface {
	InitCaptcha(ctx context.Context) (*dto.CaptchaInitResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest, metadata *ClientMetadata) (*dto.LoginResponse, error)
}

// AuthFlowImpl provides captcha-init and credential verification
type AuthFlowImpl struct {
	userRepo     repository.UserRepository
	auditRepo    repository.AuditLogRepository
	tokenService services.TokenService
	captchaSvc   services.CaptchaService
}

func NewAuthFlow(
	userRepo repository.UserRepository,
	auditRepo repository.AuditLogRepository,
	tokenService services.TokenService,
	captchaSvc services.CaptchaService,
) AuthFlow {
	return &AuthFlowImpl{
		userRepo:     userRepo,
		auditRepo:    auditRepo,
		tokenService: tokenService,
		captchaSvc:   captchaSvc,
	}
}

func (af *AuthFlowImpl) InitCaptcha(ctx context.Context) (*dto.CaptchaInitResponse, error) {
	if af.captchaSvc == nil {
		return nil, NewBusinessError("CAPTCHA_NOT_AVAILABLE", "Captcha service not available", ErrCacheNotAvailable)
	}
	ch, err := af.captchaSvc.GenerateRotate(ctx)
	if err != nil {
		return nil, NewBusinessError("CAPTCHA_INIT_FAILED", "Failed to initialize captcha", err)
	}
	return &dto.CaptchaInitResponse{
		ChallengeID:       ch.ID,
		MasterImageBase64: ch.MasterImageBase64,
		ThumbImageBase64:  ch.ThumbImageBase64,
	}, nil
}

// Login verifies the captcha and credentials and issues a token pair. Every
// outcome, success or failure, leaves an audit row.
func (af *AuthFlowImpl) Login(ctx context.Context, req *dto.LoginRequest, metadata *ClientMetadata) (*dto.LoginResponse, error) {
	if req == nil || len(req.Email) == 0 || len(req.Password) == 0 {
		return nil, NewBusinessError("LOGIN_VALIDATION_FAILED", "Login validation failed", ErrIncorrectPassword)
	}
	if len(req.ChallengeID) == 0 {
		return nil, NewBusinessError(dto.ErrorCaptchaInvalid, "Captcha challenge missing", ErrCaptchaInvalid)
	}

	// Verify captcha first
	if af.captchaSvc == nil || !af.captchaSvc.VerifyRotate(ctx, req.ChallengeID, req.UserAngle) {
		af.auditLogin(ctx, nil, false, metadata, "captcha validation failed")
		return nil, NewBusinessError(dto.ErrorCaptchaInvalid, "Captcha validation failed", ErrCaptchaInvalid)
	}

	// Lookup user
	user, err := af.userRepo.ByEmail(ctx, req.Email)
	if err != nil {
		return nil, NewBusinessError("USER_LOOKUP_FAILED", "Failed to lookup user", err)
	}
	if user == nil {
		af.auditLogin(ctx, nil, false, metadata, "user not found")
		return nil, NewBusinessError(dto.ErrorUserNotFound, "User not found", ErrUserNotFound)
	}
	if !user.CanAct() {
		af.auditLogin(ctx, &user.ID, false, metadata, "account inactive")
		return nil, NewBusinessError(dto.ErrorAccountInactive, "Account is inactive", ErrAccountInactive)
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		af.auditLogin(ctx, &user.ID, false, metadata, "incorrect password")
		return nil, NewBusinessError(dto.ErrorIncorrectPassword, "Incorrect password", ErrIncorrectPassword)
	}

	// Issue tokens carrying the workflow role
	accessToken, refreshToken, err := af.tokenService.GenerateTokens(user.ID, user.Role.String())
	if err != nil {
		return nil, NewBusinessError("TOKEN_GENERATION_FAILED", "Failed to generate tokens", err)
	}

	now := utils.UTCNow()
	if err := af.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, NewBusinessError("LOGIN_FAILED", "Failed to record login", err)
	}

	af.auditLogin(ctx, &user.ID, true, metadata, "")

	return &dto.LoginResponse{
		User:    ToUserDTO(*user),
		Session: ToSessionDTO(accessToken, refreshToken),
	}, nil
}

func (af *AuthFlowImpl) auditLogin(ctx context.Context, userID *uint, success bool, metadata *ClientMetadata, errMsg string) {
	if af.auditRepo == nil {
		return
	}

	action := models.AuditActionLoginSuccessful
	if !success {
		action = models.AuditActionLoginFailed
	}

	entry := &models.AuditLog{
		UserID:  userID,
		Action:  action,
		Success: &success,
	}
	if errMsg != "" {
		entry.ErrorMessage = &errMsg
	}
	if metadata != nil {
		if metadata.IPAddress != "" {
			entry.IPAddress = &metadata.IPAddress
		}
		if metadata.UserAgent != "" {
			entry.UserAgent = &metadata.UserAgent
		}
		if metadata.RequestID != "" {
			entry.RequestID = &metadata.RequestID
		}
		if meta, err := json.Marshal(metadata); err == nil {
			entry.Metadata = meta
		}
	}
	_ = af.auditRepo.Save(ctx, entry)
}

// ToUserDTO converts a user model to its API representation
func ToUserDTO(user models.User) dto.UserDTO {
	return dto.UserDTO{
		ID:        user.ID,
		UUID:      user.UUID.String(),
		FullName:  user.FullName,
		Email:     user.Email,
		Role:      user.Role.String(),
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// ToSessionDTO wraps an issued token pair
func ToSessionDTO(accessToken, refreshToken string) dto.SessionDTO {
	return dto.SessionDTO{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(utils.AccessTokenTTL.Seconds()),
		TokenType:    "Bearer",
		CreatedAt:    utils.UTCNow().Format("2006-01-02T15:04:05Z"),
	}
}
