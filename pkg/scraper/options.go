package scraper

import (
	"errors"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// Options tune a single listing call. Zero values fall back to the
// Scraper's Settings, so Limit 0 means the configured default limit rather
// than an empty result. A negative Limit fails validation.
type Options struct {
	Sort      string        `json:"sort" validate:"omitempty,oneof=controversial new top best hot rising all"`
	Timeframe string        `json:"timeframe" validate:"omitempty,oneof=hour day week month year all"`
	Limit     int           `json:"limit" validate:"gte=0"`
	Delay     time.Duration `json:"delay" validate:"gte=0"`
}

// request is Options resolved against Settings
type request struct {
	sort      string
	timeframe string
	limit     int
	delay     time.Duration
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
	translator   ut.Translator
)

func optionsValidator() (*validator.Validate, ut.Translator) {
	validateOnce.Do(func() {
		enLoc := en.New()
		uni := ut.New(enLoc, enLoc)
		translator, _ = uni.GetTranslator("en")

		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})
		_ = en_translations.RegisterDefaultTranslations(validate, translator)
	})
	return validate, translator
}

// Validate checks the option values and returns a readable message for the
// first failures
func (o Options) Validate() error {
	v, trans := optionsValidator()
	err := v.Struct(o)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fe.Translate(trans))
	}
	return errors.New(strings.Join(msgs, "; "))
}

// resolve validates opts and fills unset values from the Scraper settings
func (s *Scraper) resolve(c call, opts Options) (request, error) {
	if err := opts.Validate(); err != nil {
		return request{}, c.invalid("%v", err)
	}

	req := request{
		sort:      opts.Sort,
		timeframe: opts.Timeframe,
		limit:     opts.Limit,
		delay:     opts.Delay,
	}
	if req.sort == "" {
		req.sort = s.settings.Sort
	}
	if req.timeframe == "" {
		req.timeframe = s.settings.Timeframe
	}
	if req.limit == 0 {
		req.limit = s.settings.Limit
	}
	if req.delay == 0 {
		req.delay = s.settings.PageDelay
	}
	return req, nil
}
