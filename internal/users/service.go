package users

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ZameerHP/clipscript/internal/activity"
	"github.com/ZameerHP/clipscript/internal/store"
	"github.com/ZameerHP/clipscript/pkg/db/models"
	dbtypes "github.com/ZameerHP/clipscript/pkg/db/types"
	"github.com/ZameerHP/clipscript/pkg/enums"
	pkgerrors "github.com/ZameerHP/clipscript/pkg/errors"
	"github.com/ZameerHP/clipscript/pkg/logger"
	"github.com/ZameerHP/clipscript/pkg/security"
	"github.com/ZameerHP/clipscript/pkg/validate"
)

const (
	msgEmailTaken       = "This email is already registered. Try logging in."
	msgAccountNotFound  = "Account not found. Please sign up first."
	msgProviderMismatch = "This account is linked with Google. Please use Continue with Google."
	msgWrongPassword    = "Incorrect password."

	defaultCreatorName       = "ClipScript Creator"
	defaultCreatorProfession = "Story Creator"
	defaultCreatorCountry    = "Global"
)

// Service defines account lookup, sign-up, sign-in and profile operations.
type Service interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Get(ctx context.Context, userID string) (*models.User, error)
	Create(ctx context.Context, input CreateInput) (*models.User, error)
	Authenticate(ctx context.Context, email, password string, client ClientInfo) (*models.User, error)
	SignInWithProvider(ctx context.Context, identity ExternalIdentity, client ClientInfo) (*models.User, error)
	Update(ctx context.Context, userID string, update ProfileUpdate) (*models.User, error)
	SignOut(ctx context.Context, userID string)
}

// ServiceParams bundles the dependencies required to build a users service.
type ServiceParams struct {
	Store           *store.Store
	Repo            Repository
	Recorder        *activity.Recorder
	Hasher          *security.Hasher
	StartingCredits int64
	Logger          *logger.Logger
}

type service struct {
	store           *store.Store
	repo            Repository
	recorder        *activity.Recorder
	hasher          *security.Hasher
	startingCredits int64
	logg            *logger.Logger
	now             func() time.Time
}

// NewService constructs a users service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.Recorder == nil {
		return nil, fmt.Errorf("activity recorder is required")
	}
	if params.Hasher == nil {
		return nil, fmt.Errorf("password hasher is required")
	}
	if params.StartingCredits < 0 {
		return nil, fmt.Errorf("starting credits cannot be negative")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		store:           params.Store,
		repo:            params.Repo,
		recorder:        params.Recorder,
		hasher:          params.Hasher,
		startingCredits: params.StartingCredits,
		logg:            logg,
		now:             time.Now,
	}, nil
}

// NormalizeEmail trims and lowercases an address the way it is stored.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *service) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	normalized := NormalizeEmail(email)
	if normalized == "" {
		return nil, nil
	}
	return s.repo.FindByEmail(ctx, normalized)
}

func (s *service) Get(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, userNotFound(userID)
	}
	return user, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.User, error) {
	input.Email = NormalizeEmail(input.Email)
	input.Name = strings.TrimSpace(input.Name)
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	if !input.Provider.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid auth provider %q", input.Provider))
	}

	var passwordHash *string
	if input.Provider.UsesPassword() {
		if err := validate.Var("password", input.Password, "required"); err != nil {
			return nil, err
		}
		hash, err := s.hasher.Hash(input.Password)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
		}
		passwordHash = &hash
	}

	existing, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, pkgerrors.New(pkgerrors.CodeEmailAlreadyRegistered, msgEmailTaken)
	}

	now := dbtypes.FromTime(s.now())
	avatar := input.Avatar
	if avatar == "" {
		avatar = DefaultAvatar(input.Email)
	}
	user := &models.User{
		ID:           store.NewID(),
		Email:        input.Email,
		Name:         input.Name,
		Avatar:       avatar,
		Profession:   input.Profession,
		Country:      input.Country,
		Referral:     input.Referral,
		Bio:          strings.TrimSpace(input.Bio),
		Website:      strings.TrimSpace(input.Website),
		DeviceInfo:   input.DeviceInfo,
		BrowserInfo:  input.BrowserInfo,
		CreatedAt:    now,
		LastLogin:    now,
		Credits:      s.startingCredits,
		Provider:     input.Provider,
		PasswordHash: passwordHash,
	}

	err = s.store.Tx(ctx, func(tx *store.Store) error {
		if err := s.repo.WithTx(tx).Create(ctx, user); err != nil {
			// Lost a race with another sign-up for the same address.
			if pkgerrors.HasCode(err, pkgerrors.CodeDuplicateKey) {
				return pkgerrors.Wrap(pkgerrors.CodeEmailAlreadyRegistered, err, msgEmailTaken)
			}
			return err
		}
		return s.recorder.Append(ctx, tx, user.ID, enums.ActivityActionLogin, "Account created.",
			activity.LoginMetadata{Provider: user.Provider, Created: true})
	})
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithUserID(ctx, user.ID), "account created")
	return user, nil
}

func (s *service) Authenticate(ctx context.Context, email, password string, client ClientInfo) (*models.User, error) {
	user, err := s.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, pkgerrors.New(pkgerrors.CodeAccountNotFound, msgAccountNotFound)
	}
	if !user.Provider.UsesPassword() || user.PasswordHash == nil {
		return nil, pkgerrors.New(pkgerrors.CodeProviderMismatch, msgProviderMismatch)
	}
	ok, err := s.hasher.Verify(password, *user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidCredentials, msgWrongPassword)
	}

	now := s.now()
	update := ProfileUpdate{LastLogin: &now}
	if client.Agent != "" {
		update.BrowserInfo = &client.Agent
	}
	updated, err := s.applyUpdate(ctx, user.ID, update, nil)
	if err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, user.ID, enums.ActivityActionLogin, "Signed in with email.",
		activity.LoginMetadata{Provider: enums.AuthProviderEmail})
	return updated, nil
}

func (s *service) SignInWithProvider(ctx context.Context, identity ExternalIdentity, client ClientInfo) (*models.User, error) {
	if identity.Provider == "" {
		identity.Provider = enums.AuthProviderGoogle
	}
	if identity.Provider.UsesPassword() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "provider sign-in requires an external provider")
	}
	email := NormalizeEmail(identity.Email)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "verified email is required")
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		name := strings.TrimSpace(identity.Name)
		if name == "" {
			name = defaultCreatorName
		}
		return s.Create(ctx, CreateInput{
			Email:       email,
			Name:        name,
			Provider:    identity.Provider,
			Avatar:      identity.AvatarURL,
			Profession:  defaultCreatorProfession,
			Country:     defaultCreatorCountry,
			DeviceInfo:  client.Device,
			BrowserInfo: client.Agent,
		})
	}
	now := s.now()
	update := ProfileUpdate{LastLogin: &now}
	if identity.AvatarURL != "" {
		update.Avatar = &identity.AvatarURL
	}
	updated, err := s.applyUpdate(ctx, user.ID, update, nil)
	if err != nil {
		return nil, err
	}
	s.recorder.Record(ctx, user.ID, enums.ActivityActionLogin, "Signed in with Google.",
		activity.LoginMetadata{Provider: identity.Provider})
	return updated, nil
}

func (s *service) Update(ctx context.Context, userID string, update ProfileUpdate) (*models.User, error) {
	if err := validate.Struct(update); err != nil {
		return nil, err
	}
	if update.Name != nil && strings.TrimSpace(*update.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
	}
	return s.applyUpdate(ctx, userID, update, func(tx *store.Store, fields []string) error {
		if len(fields) == 0 {
			return nil
		}
		return s.recorder.Append(ctx, tx, userID, enums.ActivityActionUpdateProfile,
			"Updated profile: "+strings.Join(fields, ", ")+".",
			activity.ProfileMetadata{Fields: fields})
	})
}

// SignOut records the end of a session. It never fails.
func (s *service) SignOut(ctx context.Context, userID string) {
	s.recorder.Record(ctx, userID, enums.ActivityActionLogout, "Signed out.", nil)
}

// applyUpdate merges the non-nil fields and returns the full updated record.
// onChange runs inside the same transaction with the profile fields whose
// value actually changed.
func (s *service) applyUpdate(ctx context.Context, userID string, update ProfileUpdate, onChange func(tx *store.Store, fields []string) error) (*models.User, error) {
	columns := update.columns()

	var updated *models.User
	err := s.store.Tx(ctx, func(tx *store.Store) error {
		repo := s.repo.WithTx(tx)
		before, err := repo.FindByID(ctx, userID)
		if err != nil {
			return err
		}
		if before == nil {
			return userNotFound(userID)
		}
		found, err := repo.UpdateColumns(ctx, userID, columns)
		if err != nil {
			return err
		}
		if !found {
			return userNotFound(userID)
		}
		if onChange != nil {
			if err := onChange(tx, update.changedFields(before)); err != nil {
				return err
			}
		}
		updated, err = repo.FindByID(ctx, userID)
		if err != nil {
			return err
		}
		if updated == nil {
			return userNotFound(userID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (u ProfileUpdate) columns() map[string]any {
	columns := map[string]any{}
	for _, f := range u.profileFields() {
		if f.value != nil {
			columns[f.column] = strings.TrimSpace(*f.value)
		}
	}
	if u.BrowserInfo != nil {
		columns["browser_info"] = strings.TrimSpace(*u.BrowserInfo)
	}
	if u.DeviceInfo != nil {
		columns["device_info"] = strings.TrimSpace(*u.DeviceInfo)
	}
	if u.LastLogin != nil {
		columns["last_login"] = dbtypes.FromTime(*u.LastLogin)
	}
	return columns
}

// changedFields lists the user-visible profile fields whose value differs
// from before. Sign-in bookkeeping is not a profile change.
func (u ProfileUpdate) changedFields(before *models.User) []string {
	current := map[string]string{
		"name":       before.Name,
		"avatar":     before.Avatar,
		"profession": before.Profession,
		"country":    before.Country,
		"bio":        before.Bio,
		"website":    before.Website,
	}
	var fields []string
	for _, f := range u.profileFields() {
		if f.value != nil && strings.TrimSpace(*f.value) != current[f.column] {
			fields = append(fields, f.column)
		}
	}
	sort.Strings(fields)
	return fields
}

type profileField struct {
	column string
	value  *string
}

func (u ProfileUpdate) profileFields() []profileField {
	return []profileField{
		{"name", u.Name},
		{"avatar", u.Avatar},
		{"profession", u.Profession},
		{"country", u.Country},
		{"bio", u.Bio},
		{"website", u.Website},
	}
}

func userNotFound(userID string) error {
	return pkgerrors.New(pkgerrors.CodeUserNotFound, fmt.Sprintf("user %q not found", userID))
}
