package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/lithammer/fuzzysearch/fuzzy"
	sahilm "github.com/sahilm/fuzzy"

	"github.com/mmcdole/classboard/internal/dashboard"
	"github.com/mmcdole/classboard/internal/fixture"
)

// custom validation tags
const (
	dataSourceTag = "datasource"
	tileTypeTag   = "tiletype"
	endpointTag   = "endpoint"
)

var (
	validate   *validator.Validate
	translator ut.Translator
)

func init() {
	validate = validator.New()

	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Report config keys instead of Go field names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation(dataSourceTag, oneOfNames(dashboard.DataSourceNames))
	_ = validate.RegisterValidation(tileTypeTag, oneOfNames(dashboard.TileTypeNames))
	_ = validate.RegisterValidation(endpointTag, oneOfNames(fixture.Endpoints))

	registerFn := func(ut.Translator) error { return nil }
	for _, tag := range []string{dataSourceTag, tileTypeTag, endpointTag} {
		_ = validate.RegisterTranslation(tag, translator, registerFn, translateCustom)
	}
}

func oneOfNames(names func() []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		s, ok := fl.Field().Interface().(string)
		if !ok {
			return false
		}
		for _, n := range names() {
			if n == s {
				return true
			}
		}
		return false
	}
}

func translateCustom(_ ut.Translator, fe validator.FieldError) string {
	switch fe.Tag() {
	case dataSourceTag:
		return fmt.Sprintf("%q is not a data source", fe.Value())
	case tileTypeTag:
		return fmt.Sprintf("%q is not a tile type", fe.Value())
	case endpointTag:
		return fmt.Sprintf("%q is not a fixture endpoint", fe.Value())
	default:
		return ""
	}
}

// Validate checks cfg and returns one error listing every problem
func Validate(cfg *Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		key := strings.TrimPrefix(fe.Namespace(), "Config.")
		msg := key + ": " + fe.Translate(translator)
		if s := suggestion(fe); s != "" {
			msg += fmt.Sprintf(" (did you mean %q?)", s)
		}
		msgs = append(msgs, msg)
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func suggestion(fe validator.FieldError) string {
	value, ok := fe.Value().(string)
	if !ok {
		return ""
	}
	switch fe.Tag() {
	case dataSourceTag:
		return Suggest(value, dashboard.DataSourceNames())
	case tileTypeTag:
		return Suggest(value, dashboard.TileTypeNames())
	case endpointTag:
		return Suggest(value, fixture.Endpoints())
	}
	return ""
}

// maxTypoDistance is the largest edit distance still offered as a suggestion.
const maxTypoDistance = 2

// Suggest returns the closest fuzzy match of value among names, or "".
// Abbreviations are matched first, then plain typos by edit distance.
func Suggest(value string, names []string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return ""
	}
	if matches := sahilm.Find(value, names); len(matches) > 0 {
		return matches[0].Str
	}

	best, bestDist := "", maxTypoDistance+1
	for _, name := range names {
		if d := fuzzy.LevenshteinDistance(value, name); d < bestDist {
			best, bestDist = name, d
		}
	}
	return best
}
