// controllers/user.go
package controllers

import (
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"go-shop/apperr"
	"go-shop/config"
	"go-shop/models"
	"go-shop/store"
	"go-shop/utils"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const maxUploadSize = 5 << 20

// UserController handles user-related requests
type UserController struct {
	Users    store.UserStore
	Tokens   *utils.TokenService
	Email    *utils.EmailService
	Uploader utils.ImageUploader
	Auth     config.AuthConfig
}

// NewUserController creates a new UserController
func NewUserController(users store.UserStore, tokens *utils.TokenService, email *utils.EmailService, uploader utils.ImageUploader, auth config.AuthConfig) *UserController {
	return &UserController{
		Users:    users,
		Tokens:   tokens,
		Email:    email,
		Uploader: uploader,
		Auth:     auth,
	}
}

type signupRequest struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
}

// Signup handles user registration. It accepts JSON, or multipart form data
// with an optional "profilePic" image.
func (uc *UserController) Signup(w http.ResponseWriter, r *http.Request) {
	var (
		req  signupRequest
		file multipart.File
		name string
	)
	if isMultipart(r) {
		if err := parseUpload(w, r); err != nil {
			utils.WriteError(w, r, err)
			return
		}
		req = signupRequest{
			FirstName: r.FormValue("firstName"),
			LastName:  r.FormValue("lastName"),
			Email:     r.FormValue("email"),
			Password:  r.FormValue("password"),
		}
		f, header, err := r.FormFile("profilePic")
		switch {
		case err == nil:
			defer f.Close()
			file, name = f, header.Filename
		case !errors.Is(err, http.ErrMissingFile):
			utils.WriteError(w, r, apperr.WithMessage(apperr.ErrValidation, "Invalid profile picture"))
			return
		}
	} else if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.WriteError(w, r, err)
		return
	}

	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = models.NormalizeEmail(req.Email)
	if err := utils.ValidateStruct(req); err != nil {
		utils.WriteError(w, r, err)
		return
	}

	// Check if user already exists
	ctx := r.Context()
	_, err := uc.Users.GetUserByEmail(ctx, req.Email)
	switch {
	case err == nil:
		utils.WriteError(w, r, apperr.WithMessage(apperr.ErrEmailTaken, "User already exists"))
		return
	case !errors.Is(err, apperr.ErrUserNotFound):
		utils.WriteError(w, r, err)
		return
	}

	if !utils.IsStrongPassword(req.Password) {
		utils.WriteError(w, r, apperr.WithMessage(apperr.ErrWeakPassword,
			"Password must be at least 8 characters and include uppercase, lowercase, number, and symbol"))
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}

	profilePic := models.DefaultProfilePic
	if file != nil {
		if profilePic, err = uc.Uploader.UploadImage(ctx, file, name); err != nil {
			utils.WriteError(w, r, err)
			return
		}
	}

	user := &models.User{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Password:   hashed,
		ProfilePic: profilePic,
	}
	if err := uc.Users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, apperr.ErrEmailTaken) {
			err = apperr.WithMessage(apperr.ErrEmailTaken, "User already exists")
		}
		utils.WriteError(w, r, err)
		return
	}

	// Generate verification token
	token, err := uc.Tokens.Issue(utils.Claims{ID: user.ID.Hex(), Email: user.Email, Purpose: utils.PurposeVerify}, uc.Auth.VerifyTTL)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	if err := uc.Users.SetVerificationToken(ctx, user.ID, token); err != nil {
		utils.WriteError(w, r, err)
		return
	}

	// Delivery failures do not fail signup.
	if err := uc.Email.SendVerificationEmail(ctx, user.Email, token); err != nil {
		utils.Logger(ctx).Error("send verification email", slog.String("to", user.Email), slog.Any("error", err))
	}

	utils.WriteSuccess(w, http.StatusCreated, utils.Envelope{
		"message": "Signup successful. Please check your email to verify your account.",
	})
}

// VerifyEmail marks the account named by the token as verified. Repeat calls
// with a valid token succeed without changing anything.
func (uc *UserController) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	claims, err := uc.Tokens.Verify(mux.Vars(r)["token"], utils.PurposeVerify)
	if err != nil {
		utils.WriteError(w, r, apperr.WithMessage(err, "Invalid or expired token"))
		return
	}
	id, err := primitive.ObjectIDFromHex(claims.ID)
	if err != nil {
		utils.WriteError(w, r, apperr.WithMessage(apperr.ErrInvalidToken, "Invalid or expired token"))
		return
	}

	ctx := r.Context()
	user, err := uc.Users.GetUserByID(ctx, id)
	if err != nil {
		utils.WriteError(w, r, userLookupError(err))
		return
	}
	if user.IsVerified {
		utils.WriteSuccess(w, http.StatusOK, utils.Envelope{"message": "Email already verified"})
		return
	}

	if _, err := uc.Users.MarkVerified(ctx, id); err != nil {
		utils.WriteError(w, r, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, utils.Envelope{"message": "Email verified successfully. You can now log in."})
}

type emailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResendVerification issues a fresh, short-lived verification token. Earlier
// tokens stay valid until they expire.
func (uc *UserController) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.WriteError(w, r, err)
		return
	}
	req.Email = models.NormalizeEmail(req.Email)
	if err := utils.ValidateStruct(req); err != nil {
		utils.WriteError(w, r, err)
		return
	}

	ctx := r.Context()
	user, err := uc.Users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		utils.WriteError(w, r, userLookupError(err))
		return
	}
	if user.IsVerified {
		utils.WriteError(w, r, apperr.WithMessage(apperr.ErrAlreadyVerified, "Account already verified"))
		return
	}

	token, err := uc.Tokens.Issue(utils.Claims{ID: user.ID.Hex(), Email: user.Email, Purpose: utils.PurposeVerify}, uc.Auth.ResendVerifyTTL)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	if err := uc.Users.SetVerificationToken(ctx, user.ID, token); err != nil {
		utils.WriteError(w, r, err)
		return
	}
	if err := uc.Email.SendVerificationEmail(ctx, user.Email, token); err != nil {
		utils.Logger(ctx).Error("resend verification email", slog.String("to", user.Email), slog.Any("error", err))
	}

	utils.WriteSuccess(w, http.StatusOK, utils.Envelope{"message": "Verification email resent. Please check your inbox."})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login handles user authentication
func (uc *UserController) Login(w http.ResponseWriter, r *http.Request) {
	var creds loginRequest
	if err := utils.DecodeJSON(w, r, &creds); err != nil {
		utils.WriteError(w, r, err)
		return
	}
	creds.Email = models.NormalizeEmail(creds.Email)
	if err := utils.ValidateStruct(creds); err != nil {
		utils.WriteError(w, r, apperr.WithMessage(apperr.ErrValidation, "All fields required"))
		return
	}

	// Find the user in the database
	ctx := r.Context()
	user, err := uc.Users.GetUserByEmail(ctx, creds.Email)
	if err != nil {
		utils.WriteError(w, r, userLookupError(err))
		return
	}

	// Check if email is verified
	if !user.IsVerified {
		utils.WriteError(w, r, apperr.WithMessage(apperr.ErrNotVerified, "Please verify your email first."))
		return
	}

	if !utils.CheckPassword(user.Password, creds.Password) {
		utils.WriteError(w, r, apperr.WithMessage(apperr.ErrInvalidCredentials, "Invalid credentials"))
		return
	}

	token, err := uc.Tokens.Issue(utils.Claims{
		ID:      user.ID.Hex(),
		Email:   user.Email,
		Role:    string(models.RoleUser),
		Purpose: utils.PurposeSession,
	}, uc.Auth.SessionTTL)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, utils.Envelope{
		"message": "Login successful",
		"token":   token,
		"user":    user.Profile(),
	})
}

// GetProfile retrieves the authenticated user's profile
func (uc *UserController) GetProfile(w http.ResponseWriter, r *http.Request, id models.Identity) {
	user, err := uc.Users.GetUserByID(r.Context(), id.ID)
	if err != nil {
		utils.WriteError(w, r, userLookupError(err))
		return
	}
	utils.WriteSuccess(w, http.StatusOK, utils.Envelope{"user": user.Profile()})
}

// UpdateProfilePic replaces the caller's profile picture with the uploaded
// "profilePic" file.
func (uc *UserController) UpdateProfilePic(w http.ResponseWriter, r *http.Request, id models.Identity) {
	if !isMultipart(r) {
		utils.WriteError(w, r, apperr.WithMessage(apperr.ErrValidation, "No file uploaded"))
		return
	}
	if err := parseUpload(w, r); err != nil {
		utils.WriteError(w, r, err)
		return
	}
	file, header, err := r.FormFile("profilePic")
	if err != nil {
		utils.WriteError(w, r, apperr.WithMessage(apperr.ErrValidation, "No file uploaded"))
		return
	}
	defer file.Close()

	ctx := r.Context()
	url, err := uc.Uploader.UploadImage(ctx, file, header.Filename)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}

	user, err := uc.Users.UpdateProfilePic(ctx, id.ID, url)
	if err != nil {
		utils.WriteError(w, r, userLookupError(err))
		return
	}
	utils.WriteSuccess(w, http.StatusOK, utils.Envelope{
		"message": "Profile picture updated",
		"user":    user.Profile(),
	})
}

func userLookupError(err error) error {
	if errors.Is(err, apperr.ErrUserNotFound) {
		return apperr.WithMessage(apperr.ErrUserNotFound, "User not found")
	}
	return err
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// parseUpload parses a multipart body of at most maxUploadSize bytes.
func parseUpload(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		if utils.BodyTooLarge(err) {
			return apperr.WithMessage(apperr.ErrValidation, "File too large")
		}
		return apperr.WithMessage(apperr.ErrValidation, "Invalid form data")
	}
	return nil
}
