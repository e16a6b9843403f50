package common

import (
	"reflect"
	"strconv"
	"strings"
	"sync"

	"trainhub/utils"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/gofiber/fiber/v2"
)

var (
	once       sync.Once
	validate   *validator.Validate
	translator ut.Translator
)

func instance() (*validator.Validate, ut.Translator) {
	once.Do(func() {
		validate = validator.New()
		english := en.New()
		translator, _ = ut.New(english, english).GetTranslator("en")
		_ = en_translations.RegisterDefaultTranslations(validate, translator)

		// Use JSON tag names for errors instead of Go struct names.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				name = strings.SplitN(fld.Tag.Get("query"), ",", 2)[0]
			}
			return name
		})
	})
	return validate, translator
}

// Struct validates v and returns one readable message per failing field.
func Struct(v interface{}) []string {
	val, trans := instance()
	err := val.Struct(v)
	if err == nil {
		return nil
	}
	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}
	messages := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		messages = append(messages, fe.Translate(trans))
	}
	return messages
}

// Fail builds the 400 response error for the collected messages.
func Fail(errs []string) error {
	return utils.BadRequest("Validation failed!", errs...)
}

// ParseBody decodes the JSON body into dst and runs struct validation.
// Extra messages from manual checks can be appended by the caller.
func ParseBody(c *fiber.Ctx, dst interface{}) []string {
	if err := c.BodyParser(dst); err != nil {
		return []string{"Invalid request body!"}
	}
	return Struct(dst)
}

// ParamID reads a positive integer path parameter.
func ParamID(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, utils.BadRequest("Validation failed!", name+" must be a positive integer")
	}
	return uint(id), nil
}

// ID validates the :name path parameter and stores it under the same Locals key.
func ID(names ...string) fiber.Handler {
	if len(names) == 0 {
		names = []string{"id"}
	}
	return func(c *fiber.Ctx) error {
		var errs []string
		for _, name := range names {
			id, err := ParamID(c, name)
			if err != nil {
				errs = append(errs, name+" must be a positive integer")
				continue
			}
			c.Locals(name, id)
		}
		if len(errs) > 0 {
			return Fail(errs)
		}
		return c.Next()
	}
}

// ListQuery holds the shared pagination and search query parameters.
type ListQuery struct {
	Page   int    `query:"page" validate:"omitempty,min=1"`
	Limit  int    `query:"limit" validate:"omitempty,min=1,max=100"`
	Search string `query:"search" validate:"omitempty,max=100"`
}

func (q ListQuery) Pagination() utils.Pagination {
	return utils.NewPagination(q.Page, q.Limit)
}

// List validates pagination parameters and stores them as "listQuery".
func List() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := new(ListQuery)
		if err := c.QueryParser(q); err != nil {
			return Fail([]string{"Invalid query parameters!"})
		}
		if errs := Struct(q); len(errs) > 0 {
			return Fail(errs)
		}
		q.Search = strings.TrimSpace(q.Search)
		c.Locals("listQuery", q)
		return c.Next()
	}
}

// LocalID reads an id stored by ID().
func LocalID(c *fiber.Ctx, name string) uint {
	id, _ := c.Locals(name).(uint)
	return id
}

// LocalList reads the query stored by List().
func LocalList(c *fiber.Ctx) *ListQuery {
	if q, ok := c.Locals("listQuery").(*ListQuery); ok {
		return q
	}
	return &ListQuery{Page: 1, Limit: 10}
}

// Body parses the JSON body into a new T, validates it and stores it under key.
func Body[T any](key string, checks ...func(in *T) []string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		in := new(T)
		errs := ParseBody(c, in)
		if len(errs) == 0 {
			for _, check := range checks {
				errs = append(errs, check(in)...)
			}
		}
		if len(errs) > 0 {
			return Fail(errs)
		}
		c.Locals(key, in)
		return c.Next()
	}
}

// Query parses the query string into a new T, validates it and stores it under key.
func Query[T any](key string, checks ...func(in *T) []string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		in := new(T)
		if err := c.QueryParser(in); err != nil {
			return Fail([]string{"Invalid query parameters!"})
		}
		errs := Struct(in)
		for _, check := range checks {
			errs = append(errs, check(in)...)
		}
		if len(errs) > 0 {
			return Fail(errs)
		}
		c.Locals(key, in)
		return c.Next()
	}
}
