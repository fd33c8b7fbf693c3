package handler

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/joestump/movies/internal/store"
)

const (
	minYear   = 1900
	maxYear   = 2030
	minRating = 0
	maxRating = 10
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		var lower, upper, digit bool
		for _, c := range fl.Field().String() {
			switch {
			case unicode.IsLower(c):
				lower = true
			case unicode.IsUpper(c):
				upper = true
			case unicode.IsDigit(c):
				digit = true
			}
		}
		return lower && upper && digit
	})
	_ = v.RegisterValidation("year", func(fl validator.FieldLevel) bool {
		_, ok := parseYear(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("rating", func(fl validator.FieldLevel) bool {
		_, ok := parseRating(fl.Field().String())
		return ok
	})
	return v
}

func parseYear(s string) (int, bool) {
	y, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || y < minYear || y > maxYear {
		return 0, false
	}
	return y, true
}

func parseRating(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || f < minRating || f > maxRating {
		return 0, false
	}
	return f, true
}

// messages maps "Field.tag" to the text shown to the user.
var messages = map[string]string{
	"Username.required":       "Username must be between 3 and 20 characters",
	"Username.min":            "Username must be between 3 and 20 characters",
	"Username.max":            "Username must be between 3 and 20 characters",
	"Username.alphanum":       "Username must contain only letters and numbers",
	"Email.required":          "Please enter a valid email address",
	"Email.email":             "Please enter a valid email address",
	"Password.required":       "Password must be at least 8 characters long",
	"Password.min":            "Password must be at least 8 characters long",
	"Password.password":       "Password must contain at least one lowercase letter, one uppercase letter, and one number",
	"ConfirmPassword.eqfield": "Passwords do not match",
	"Login.required":          "Username is required",
	"LoginPassword.required":  "Password is required",
	"Name.required":           "Name is required.",
	"Description.required":    "Description is required.",
	"Year.required":           "Year must be between 1900 and 2030.",
	"Year.year":               "Year must be between 1900 and 2030.",
	"Rating.required":         "Rating must be between 0 and 10.",
	"Rating.rating":           "Rating must be between 0 and 10.",
}

// validateForm runs the struct tags on form and returns user-facing messages
// in field order. A nil result means the form is valid.
func validateForm(form any) []string {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg, ok := messages[fe.StructField()+"."+fe.Tag()]
		if !ok {
			msg = fe.Error()
		}
		out = append(out, msg)
	}
	return out
}

// RegisterForm is the registration form as submitted.
type RegisterForm struct {
	Username        string `validate:"required,min=3,max=20,alphanum"`
	Email           string `validate:"required,email"`
	Password        string `validate:"required,min=8,password"`
	ConfirmPassword string `validate:"eqfield=Password"`
}

func registerFormFrom(r *http.Request) RegisterForm {
	return RegisterForm{
		Username:        strings.TrimSpace(r.PostFormValue("username")),
		Email:           strings.ToLower(strings.TrimSpace(r.PostFormValue("email"))),
		Password:        r.PostFormValue("password"),
		ConfirmPassword: r.PostFormValue("confirmPassword"),
	}
}

// LoginForm is the login form as submitted. Login is a username or email.
type LoginForm struct {
	Login         string `validate:"required"`
	LoginPassword string `validate:"required"`
}

func loginFormFrom(r *http.Request) LoginForm {
	return LoginForm{
		Login:         strings.TrimSpace(r.PostFormValue("username")),
		LoginPassword: r.PostFormValue("password"),
	}
}

// MovieForm is the movie form as submitted. Numbers stay strings so invalid
// input can be shown back to the user unchanged.
type MovieForm struct {
	Name        string `validate:"required"`
	Description string `validate:"required"`
	Year        string `validate:"required,year"`
	Genres      string
	Rating      string `validate:"required,rating"`
}

func movieFormFrom(r *http.Request) MovieForm {
	return MovieForm{
		Name:        strings.TrimSpace(r.PostFormValue("name")),
		Description: strings.TrimSpace(r.PostFormValue("description")),
		Year:        strings.TrimSpace(r.PostFormValue("year")),
		Genres:      r.PostFormValue("genres"),
		Rating:      strings.TrimSpace(r.PostFormValue("rating")),
	}
}

// movieFormOf fills the edit form from a stored movie.
func movieFormOf(m *store.Movie) MovieForm {
	return MovieForm{
		Name:        m.Name,
		Description: m.Description,
		Year:        strconv.Itoa(m.Year),
		Genres:      strings.Join(m.Genres, ", "),
		Rating:      strconv.FormatFloat(m.Rating, 'f', -1, 64),
	}
}

// Input converts a validated form into store input.
func (f MovieForm) Input() store.MovieInput {
	year, _ := parseYear(f.Year)
	rating, _ := parseRating(f.Rating)
	return store.MovieInput{
		Name:        f.Name,
		Description: f.Description,
		Year:        year,
		Genres:      store.SplitGenres(f.Genres),
		Rating:      rating,
	}
}
