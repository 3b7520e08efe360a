package auth

import (
	"errors"
	"net/http"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/romana/rlog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"restaurant_api/constants"
	"restaurant_api/custom/util"
	"restaurant_api/model"
)

type HandlerContext struct {
	db *gorm.DB
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

func (ctx *HandlerContext) InitialHandlerContext(db *gorm.DB) {
	ctx.db = db
}

// Register creates a new credential holder and returns a fresh token.
func (ctx *HandlerContext) Register(w http.ResponseWriter, r *http.Request) {
	req := RegisterRequest{}
	err := util.FetchReqObject(r, &req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Validate payload
	ve := util.ValidationErrors{}
	if req.Name == "" {
		ve.Add("name", "The name field is required.")
	}
	if req.Email == "" {
		ve.Add("email", "The email field is required.")
	} else if _, errMail := mail.ParseAddress(req.Email); errMail != nil {
		ve.Add("email", "The email must be a valid email address.")
	}
	if len(req.Password) < 8 {
		ve.Add("password", "The password must be at least 8 characters.")
	}
	if !ve.HasErrors() {
		var count int64
		if errDb := ctx.db.Model(&model.User{}).Where("email = ?", req.Email).Count(&count).Error; errDb != nil {
			// the unique index still backstops the insert below
			rlog.Error("Email uniqueness check failed: ", errDb.Error())
		} else if count > 0 {
			ve.Add("email", "The email has already been taken.")
		}
	}
	if ve.HasErrors() {
		util.WriteValidationErrors(w, ve)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		rlog.Error("Hash password failed: ", err.Error())
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	newUser := model.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hash),
	}
	var token model.AuthToken
	errDb := ctx.db.Transaction(func(tx *gorm.DB) error {
		if errTx := tx.Create(&newUser).Error; errTx != nil {
			return errTx
		}
		var errTx error
		token, errTx = issueToken(tx, newUser.ID)
		return errTx
	})
	if errDb != nil {
		if util.IsUniqueViolation(errDb) {
			ve.Add("email", "The email has already been taken.")
			util.WriteValidationErrors(w, ve)
			return
		}
		rlog.Error("Register failed: ", errDb.Error())
		http.Error(w, errDb.Error(), http.StatusInternalServerError)
		return
	}

	rlog.Infof("User %d registered", newUser.ID)
	util.WriteJSON(w, http.StatusCreated, TokenResponse{Token: token.Token, User: newUser})
}

// Login returns a token on valid credentials. The response never reveals
// whether the email or the password was wrong.
func (ctx *HandlerContext) Login(w http.ResponseWriter, r *http.Request) {
	req := LoginRequest{}
	err := util.FetchReqObject(r, &req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Email == "" || req.Password == "" {
		util.WriteMessage(w, http.StatusUnauthorized, constants.INVALID_CREDENTIALS)
		return
	}

	var user model.User
	errDb := ctx.db.Where("email = ?", req.Email).First(&user).Error
	if errDb != nil {
		if !errors.Is(errDb, gorm.ErrRecordNotFound) {
			rlog.Error("Login lookup failed: ", errDb.Error())
		}
		util.WriteMessage(w, http.StatusUnauthorized, constants.INVALID_CREDENTIALS)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		util.WriteMessage(w, http.StatusUnauthorized, constants.INVALID_CREDENTIALS)
		return
	}

	token, errDb := issueToken(ctx.db, user.ID)
	if errDb != nil {
		rlog.Error("Issue token failed: ", errDb.Error())
		http.Error(w, errDb.Error(), http.StatusInternalServerError)
		return
	}

	util.WriteJSON(w, http.StatusOK, TokenResponse{Token: token.Token, User: user})
}

// Logout revokes the token presented on this request.
func (ctx *HandlerContext) Logout(w http.ResponseWriter, r *http.Request) {
	token := CurrentToken(r)
	if token == nil {
		util.WriteMessage(w, http.StatusUnauthorized, constants.UNAUTHENTICATED)
		return
	}

	errDb := ctx.db.Model(&model.AuthToken{}).Where("id = ?", token.ID).Update("revoked", true).Error
	if errDb != nil {
		rlog.Error("Revoke token failed: ", errDb.Error())
		http.Error(w, errDb.Error(), http.StatusInternalServerError)
		return
	}

	util.WriteMessage(w, http.StatusOK, "Logged out successfully")
}

// Me returns the identity behind the presented token.
func (ctx *HandlerContext) Me(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r)
	if user == nil {
		util.WriteMessage(w, http.StatusUnauthorized, constants.UNAUTHENTICATED)
		return
	}
	util.WriteJSON(w, http.StatusOK, user)
}

func issueToken(tx *gorm.DB, userId uint) (model.AuthToken, error) {
	token := model.AuthToken{
		Token:     uuid.NewString(),
		UserId:    userId,
		ExpiresAt: time.Now().Add(constants.TOKEN_LIFETIME),
	}
	err := tx.Create(&token).Error
	return token, err
}
