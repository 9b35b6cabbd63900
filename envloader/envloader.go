package envloader

import (
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var durationType = reflect.TypeOf(time.Duration(0))

// Loader preenche structs a partir de uma fonte de variáveis.
type Loader struct {
	lookup func(string) (string, bool)
	prefix string
}

// Option configura o Loader.
type Option func(*Loader)

// WithPrefix prefixa todos os nomes de variáveis (ex: "GATEWAY_").
func WithPrefix(prefix string) Option {
	return func(l *Loader) { l.prefix = prefix }
}

// WithLookup troca a fonte das variáveis (default: os.LookupEnv).
func WithLookup(lookup func(string) (string, bool)) Option {
	return func(l *Loader) {
		if lookup != nil {
			l.lookup = lookup
		}
	}
}

// New cria um Loader.
func New(opts ...Option) *Loader {
	l := &Loader{lookup: os.LookupEnv}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load preenche uma struct com valores de variáveis de ambiente
// baseado nas tags "env", "envDefault" e "envRequired"
func Load(config interface{}) error {
	return New().Load(config)
}

// MustLoad é similar ao Load, mas panic em caso de erro
func MustLoad(config interface{}) {
	if err := Load(config); err != nil {
		panic(err)
	}
}

// Load preenche config usando a fonte configurada.
func (l *Loader) Load(config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() != reflect.Ptr || val.Elem().Kind() != reflect.Struct {
		return &InvalidConfigError{Value: reflect.TypeOf(config)}
	}

	return l.loadStruct(val.Elem())
}

func (l *Loader) loadStruct(val reflect.Value) error {
	typ := val.Type()

	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		fieldType := typ.Field(i)

		if !field.CanSet() {
			continue
		}

		switch {
		case field.Kind() == reflect.Struct:
			if err := l.loadStruct(field); err != nil {
				return err
			}
			continue

		case field.Kind() == reflect.Ptr && field.Type().Elem().Kind() == reflect.Struct:
			if field.IsNil() {
				field.Set(reflect.New(field.Type().Elem()))
			}
			if err := l.loadStruct(field.Elem()); err != nil {
				return err
			}
			continue
		}

		envTag := fieldType.Tag.Get("env")
		if envTag == "" {
			continue
		}
		envName := l.prefix + envTag

		envValue, _ := l.lookup(envName)
		if envValue == "" {
			envValue = fieldType.Tag.Get("envDefault")
		}

		if envValue == "" {
			if fieldType.Tag.Get("envRequired") == "true" {
				return &MissingVarError{FieldName: fieldType.Name, EnvVar: envName}
			}
			continue
		}

		if err := setFieldValue(field, envValue); err != nil {
			return &FieldError{
				FieldName: fieldType.Name,
				EnvVar:    envName,
				Value:     envValue,
				Err:       err,
			}
		}
	}

	return nil
}

// setFieldValue define o valor de um campo baseado no seu tipo
func setFieldValue(field reflect.Value, value string) error {
	if field.Type() == durationType {
		d, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		field.SetInt(int64(d))
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		intValue, err := strconv.ParseInt(value, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetInt(intValue)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		uintValue, err := strconv.ParseUint(value, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetUint(uintValue)

	case reflect.Bool:
		boolValue, err := strconv.ParseBool(strings.ToLower(value))
		if err != nil {
			return err
		}
		field.SetBool(boolValue)

	case reflect.Float32, reflect.Float64:
		floatValue, err := strconv.ParseFloat(value, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetFloat(floatValue)

	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return &UnsupportedTypeError{Type: field.Type()}
		}
		parts := strings.Split(value, ",")
		out := reflect.MakeSlice(field.Type(), 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = reflect.Append(out, reflect.ValueOf(p).Convert(field.Type().Elem()))
			}
		}
		field.Set(out)

	default:
		return &UnsupportedTypeError{Type: field.Type()}
	}

	return nil
}
