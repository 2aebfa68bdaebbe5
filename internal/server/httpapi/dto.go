package httpapi

import (
	"reflect"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/salaries/internal/common"
	"github.com/dmitrijs2005/salaries/internal/server/models"
	"github.com/dmitrijs2005/salaries/internal/server/services"
	"github.com/dmitrijs2005/salaries/internal/timex"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	msgUserNameCharset = "Username может содержать только латиницу и цифры"
	msgUserNameLength  = "Username должен быть больше 6 символов, но меньше 30"
	msgNameCharset     = "Имя и фамилия могут содержать только кириллицу"
	msgPasswordLength  = "Пароль должен быть больше 6 символов, но меньше 30"

	minLength = 6
	maxLength = 30
)

var (
	userNamePattern = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
	namePattern     = regexp.MustCompile(`^[а-яА-Я]+$`)
)

func init() {
	// report json/form names instead of Go field names
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
				if name != "" && name != "-" {
					return name
				}
			}
			return f.Name
		})
	}
}

type CreateUserRequest struct {
	UserName  *string `json:"username" binding:"required"`
	Email     *string `json:"email" binding:"required,email"`
	Password  *string `json:"password" binding:"required"`
	FirstName *string `json:"first_name" binding:"required"`
	LastName  *string `json:"last_name" binding:"required"`
}

// toNewUser checks the request field by field in declaration order. Shape
// problems (missing field, bad email) are collected; the first failing
// domain rule wins immediately.
func (r *CreateUserRequest) toNewUser(invalid validator.ValidationErrors) (services.NewUser, []fieldError, error) {
	failed := map[string]validator.FieldError{}
	for _, fe := range invalid {
		failed[fe.Field()] = fe
	}

	var (
		out    services.NewUser
		fields []fieldError
	)

	steps := []struct {
		name  string
		value *string
		check func(string) (string, error)
		dst   *string
	}{
		{"username", r.UserName, checkUserName, &out.UserName},
		{"email", r.Email, keep, &out.Email},
		{"password", r.Password, checkPassword, &out.Password},
		{"first_name", r.FirstName, checkName, &out.FirstName},
		{"last_name", r.LastName, checkName, &out.LastName},
	}

	for _, st := range steps {
		if fe, ok := failed[st.name]; ok {
			fields = append(fields, fromValidation(fe))
			continue
		}
		if st.value == nil {
			fields = append(fields, missingField("body", st.name))
			continue
		}
		v, err := st.check(*st.value)
		if err != nil {
			return services.NewUser{}, nil, err
		}
		*st.dst = v
	}

	return out, fields, nil
}

func keep(v string) (string, error) { return v, nil }

func checkUserName(v string) (string, error) {
	if !userNamePattern.MatchString(v) {
		return "", common.NewDetailError(common.ErrorValidation, msgUserNameCharset)
	}
	if len(v) < minLength || len(v) > maxLength {
		return "", common.NewDetailError(common.ErrorValidation, msgUserNameLength)
	}
	return v, nil
}

func checkPassword(v string) (string, error) {
	if n := utf8.RuneCountInString(v); n < minLength || n > maxLength {
		return "", common.NewDetailError(common.ErrorValidation, msgPasswordLength)
	}
	return v, nil
}

// checkName accepts cyrillic-only names and returns them title-cased.
func checkName(v string) (string, error) {
	if !namePattern.MatchString(v) {
		return "", common.NewDetailError(common.ErrorValidation, msgNameCharset)
	}
	return cases.Title(language.Russian).String(v), nil
}

type TokenRequest struct {
	UserName string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type UpdateSalaryRequest struct {
	CurrentSalary *float64 `json:"current_salary"`
	IncreaseDate  *string  `json:"increase_date"`
}

func (r *UpdateSalaryRequest) toPatch() (models.SalaryPatch, []fieldError) {
	patch := models.SalaryPatch{Amount: r.CurrentSalary}
	if r.IncreaseDate != nil {
		t, err := timex.ParseNaive(*r.IncreaseDate)
		if err != nil {
			return models.SalaryPatch{}, []fieldError{{
				Loc:  []string{"body", "increase_date"},
				Msg:  "invalid datetime format",
				Type: "value_error.datetime",
			}}
		}
		patch.IncreaseDate = &t
	}
	return patch, nil
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type SalaryResponse struct {
	ID            uuid.UUID `json:"id"`
	CurrentSalary *float64  `json:"current_salary"`
	IncreaseDate  *string   `json:"increase_date"`
	CreatedDate   string    `json:"created_date"`
}

type UserResponse struct {
	ID          uuid.UUID       `json:"id"`
	UserName    string          `json:"username"`
	Email       string          `json:"email"`
	FirstName   string          `json:"first_name"`
	LastName    string          `json:"last_name"`
	CreatedDate string          `json:"created_date"`
	Salary      *SalaryResponse `json:"salary"`
}

func newSalaryResponse(s *models.Salary) *SalaryResponse {
	if s == nil {
		return nil
	}
	out := &SalaryResponse{
		ID:            s.ID,
		CurrentSalary: s.Amount,
		CreatedDate:   timex.FormatNaive(s.CreatedAt),
	}
	if s.IncreaseDate != nil {
		d := timex.FormatNaive(*s.IncreaseDate)
		out.IncreaseDate = &d
	}
	return out
}

func newUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		UserName:    u.UserName,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		CreatedDate: timex.FormatNaive(u.CreatedAt),
		Salary:      newSalaryResponse(u.Salary),
	}
}

func newUserListResponse(users []*models.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, newUserResponse(u))
	}
	return out
}
