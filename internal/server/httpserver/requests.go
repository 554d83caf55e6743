package httpserver

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/campusevents/internal/server/models"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// registerRequest also accepts the display name as nama or username.
type registerRequest struct {
	Nama     string `json:"nama"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// normalize resolves the display name, preferring nama, then name, then
// username.
func (r *registerRequest) normalize() {
	for _, v := range []string{r.Nama, r.Name, r.Username} {
		if strings.TrimSpace(v) != "" {
			r.Name = v
			return
		}
	}
}

func (r registerRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Length(0, 100)),
		validation.Field(&r.Email, validation.Required, validation.Length(0, 150), is.Email),
		validation.Field(&r.Password, validation.Required),
		validation.Field(&r.Role, validation.In(models.RoleAdmin, models.RoleUser)),
	)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r loginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// eventRequest accepts both the English field names and the legacy tanggal
// and waktu spellings for date and time.
type eventRequest struct {
	Name        *string `json:"name"`
	Date        *string `json:"date"`
	Tanggal     *string `json:"tanggal"`
	Time        *string `json:"time"`
	Waktu       *string `json:"waktu"`
	Location    *string `json:"location"`
	Category    *string `json:"category"`
	Description *string `json:"description"`
}

func (r *eventRequest) normalize() {
	if r.Date == nil {
		r.Date = r.Tanggal
	}
	if r.Time == nil {
		r.Time = r.Waktu
	}
	if r.Time != nil && strings.TrimSpace(*r.Time) == "" {
		r.Time = nil
	}
	r.Tanggal, r.Waktu = nil, nil
}

func (r *eventRequest) input() models.EventInput {
	return models.EventInput{
		Name:        r.Name,
		Date:        r.Date,
		Time:        r.Time,
		Location:    r.Location,
		Category:    r.Category,
		Description: r.Description,
	}
}

func blank(p *string) bool {
	return p == nil || strings.TrimSpace(*p) == ""
}

// missing lists the required fields that are absent or blank.
func (r *eventRequest) missing(withCategory bool) []string {
	var out []string
	if blank(r.Name) {
		out = append(out, "name")
	}
	if blank(r.Date) {
		out = append(out, "date")
	}
	if blank(r.Location) {
		out = append(out, "location")
	}
	if withCategory && blank(r.Category) {
		out = append(out, "category")
	}
	return out
}

func stringValue(value interface{}) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case *string:
		if v == nil {
			return "", false
		}
		return *v, true
	}
	return "", false
}

func layoutRule(message string, layouts ...string) validation.Rule {
	return validation.By(func(value interface{}) error {
		s, ok := stringValue(value)
		if !ok || s == "" {
			return nil
		}
		for _, l := range layouts {
			if _, err := time.Parse(l, s); err == nil {
				return nil
			}
		}
		return errors.New(message)
	})
}

func categoryValues() []interface{} {
	out := make([]interface{}, len(models.Categories))
	for i, c := range models.Categories {
		out[i] = c
	}
	return out
}

var (
	dateRule     = layoutRule("must be a date in YYYY-MM-DD format", models.DateLayout)
	timeRule     = layoutRule("must be a time in HH:MM or HH:MM:SS format", "15:04", "15:04:05")
	categoryRule = validation.In(categoryValues()...).Error("must be one of " + strings.Join(models.Categories, ", "))
)

// validate checks the payload. Creation additionally requires a category;
// both creation and update require name, date and location.
func (r *eventRequest) validate(create bool) error {
	required := []validation.Rule{validation.Required}
	categoryRules := []validation.Rule{categoryRule}
	if create {
		categoryRules = append(categoryRules, validation.Required)
	}

	err := validation.ValidateStruct(r,
		validation.Field(&r.Name, append(required, validation.Length(0, 255))...),
		validation.Field(&r.Date, validation.Required, dateRule),
		validation.Field(&r.Time, timeRule),
		validation.Field(&r.Location, append(required, validation.Length(0, 255))...),
		validation.Field(&r.Category, categoryRules...),
	)
	if err == nil {
		return nil
	}

	message := "Validation failed"
	if m := r.missing(create); len(m) > 0 {
		message = "Missing required fields: " + strings.Join(m, ", ")
	}
	return toValidationError(message, err)
}

// toValidationError converts ozzo-validation output into a validationError.
// Anything else is returned unchanged.
func toValidationError(message string, err error) error {
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return err
	}

	fields := make(map[string]string, len(errs))
	for k, v := range errs {
		fields[k] = v.Error()
	}
	return &validationError{message: message, fields: fields}
}

// maxQueryInt bounds numeric query parameters before they reach the paging
// arithmetic.
const maxQueryInt = 1_000_000

// queryInt parses a numeric query parameter; anything unparsable or negative
// counts as absent so the listing defaults apply.
func queryInt(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0
	}
	return min(n, maxQueryInt)
}
