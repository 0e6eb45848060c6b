package validation

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// tagName is the struct tag gin's default validator reads.
const tagName = "binding"

var registerOnce sync.Once

// setupEngine registers the custom rules on gin's shared validator engine.
// The forms below use gin's `binding` tag name, so request structs bound by
// gin elsewhere would share the same rules.
func setupEngine() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			panic("validation: gin binding engine is not go-playground/validator")
		}
		mustRegister(v, "notblank", validators.NotBlank)
		mustRegister(v, "digits", isDigits)
		mustRegister(v, "weburl", isWebURL)
	})
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: registering %s: %v", tag, err))
	}
}

func isDigits(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

var webSchemes = map[string]bool{"http": true, "https": true, "ftp": true, "ftps": true}

// isWebURL accepts absolute http(s)/ftp(s) URLs whose host is a dotted
// domain name, an IP address or localhost.
func isWebURL(fl validator.FieldLevel) bool {
	u, err := url.Parse(fl.Field().String())
	if err != nil || u.Opaque != "" || !webSchemes[strings.ToLower(u.Scheme)] {
		return false
	}
	host := u.Hostname()
	return host == "localhost" || strings.Contains(host, ".") || strings.Contains(host, ":")
}

// Messages for rules whose wording depends on the field.
var fieldMessages = map[string]string{
	"Name.notblank":    "Category name cannot be empty or whitespace.",
	"NewName.notblank": "New category name cannot be empty or whitespace.",
	"Barcode.digits":   "Barcode must be numeric.",
	"Barcode.min":      "Barcode must be between 8 to 13 digits.",
	"Barcode.max":      "Barcode must be between 8 to 13 digits.",
}

// check runs the shape rules declared on form and records failures under the
// form's json field names.
func (d *decoder) check(form any) {
	setupEngine()
	err := binding.Validator.ValidateStruct(form)
	if err == nil {
		return
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		d.errs.Add("_schema", err.Error())
		return
	}

	typ := reflect.TypeOf(form)
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	for _, fe := range verrs {
		sf, ok := typ.FieldByName(fe.StructField())
		if !ok {
			d.errs.Add(fe.Field(), fe.Error())
			continue
		}
		d.errs.Add(jsonName(sf), message(fe, sf))
	}
}

func jsonName(sf reflect.StructField) string {
	name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
	if name == "" {
		return sf.Name
	}
	return name
}

func rules(sf reflect.StructField) map[string]string {
	out := map[string]string{}
	for _, r := range strings.Split(sf.Tag.Get(tagName), ",") {
		tag, param, _ := strings.Cut(r, "=")
		out[tag] = param
	}
	return out
}

func message(fe validator.FieldError, sf reflect.StructField) string {
	if msg, ok := fieldMessages[fe.StructField()+"."+fe.Tag()]; ok {
		return msg
	}

	kind := sf.Type.Kind()
	if kind == reflect.Ptr {
		kind = sf.Type.Elem().Kind()
	}
	switch fe.Tag() {
	case "min", "max":
		r := rules(sf)
		minVal, hasMin := r["min"]
		maxVal, hasMax := r["max"]
		if kind == reflect.String {
			switch {
			case hasMin && hasMax:
				return fmt.Sprintf("Length must be between %s and %s.", minVal, maxVal)
			case hasMax:
				return fmt.Sprintf("Longer than maximum length %s.", maxVal)
			default:
				return fmt.Sprintf("Shorter than minimum length %s.", minVal)
			}
		}
		switch {
		case hasMin && hasMax:
			return fmt.Sprintf("Must be greater than or equal to %s and less than or equal to %s.", minVal, maxVal)
		case hasMax:
			return fmt.Sprintf("Must be less than or equal to %s.", maxVal)
		default:
			return fmt.Sprintf("Must be greater than or equal to %s.", minVal)
		}
	case "url", "weburl":
		return "Not a valid URL."
	case "notblank":
		return "Field cannot be empty or whitespace."
	case "digits":
		return "Must contain only digits."
	}
	return fmt.Sprintf("Failed %s validation.", fe.Tag())
}
