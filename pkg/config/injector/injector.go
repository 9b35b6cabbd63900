package injector

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

// Regex para capturar padrões ${tipo.chave}
// Ex: ${env.SERASA_CLIENT_ID}, ${ssm./serasa/client_id}, ${secret.serasa/credentials#client_secret}
var pattern = regexp.MustCompile(`\$\{(env|ssm|secret)\.([^}]+)\}`)

// SecretResolver busca valores em cofres externos (SSM / Secrets Manager).
type SecretResolver interface {
	Parameter(ctx context.Context, path string) (string, error)
	Secret(ctx context.Context, id string) (string, error)
}

type Injector struct {
	resolver SecretResolver
	lookup   func(string) (string, bool)
}

// New cria um Injector. resolver pode ser nil quando só ${env.*} é usado.
func New(resolver SecretResolver) *Injector {
	return &Injector{
		resolver: resolver,
		lookup:   os.LookupEnv,
	}
}

func (i *Injector) Inject(ctx context.Context, target interface{}) error {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return fmt.Errorf("target deve ser um ponteiro para struct não nulo")
	}
	return i.injectRecursive(ctx, v.Elem())
}

func (i *Injector) injectRecursive(ctx context.Context, v reflect.Value) error {
	switch v.Kind() {
	case reflect.Struct:
		t := v.Type()
		for k := 0; k < t.NumField(); k++ {
			field := t.Field(k)
			value := v.Field(k)

			if !value.CanSet() {
				continue
			}

			if value.Kind() == reflect.String {
				newValue, err := i.interpolateString(ctx, value.String())
				if err != nil {
					return fmt.Errorf("campo %s: %w", field.Name, err)
				}
				value.SetString(newValue)
			}

			// Variável de ambiente definida na tag tem precedência sobre o YAML
			if err := i.processStructTags(field, value); err != nil {
				return err
			}

			if err := i.injectRecursive(ctx, value); err != nil {
				return err
			}
		}

	case reflect.Ptr:
		if !v.IsNil() {
			return i.injectRecursive(ctx, v.Elem())
		}

	case reflect.Slice:
		for j := 0; j < v.Len(); j++ {
			elem := v.Index(j)
			if elem.Kind() == reflect.String {
				newValue, err := i.interpolateString(ctx, elem.String())
				if err != nil {
					return err
				}
				elem.SetString(newValue)
				continue
			}
			if err := i.injectRecursive(ctx, elem); err != nil {
				return err
			}
		}
	}
	return nil
}

func (i *Injector) processStructTags(field reflect.StructField, value reflect.Value) error {
	tag := field.Tag.Get("env")
	if tag == "" {
		return nil
	}
	val, exists := i.lookup(tag)
	if !exists || val == "" {
		return nil
	}
	return setField(value, val, tag)
}

// interpolateString realiza a substituição baseada em Regex
func (i *Injector) interpolateString(ctx context.Context, input string) (string, error) {
	if !strings.Contains(input, "${") {
		return input, nil
	}

	var err error
	result := pattern.ReplaceAllStringFunc(input, func(match string) string {
		if err != nil {
			return match
		}

		content := match[2 : len(match)-1]
		parts := strings.SplitN(content, ".", 2)
		if len(parts) != 2 {
			return match
		}

		val, resolveErr := i.fetchValue(ctx, parts[0], parts[1])
		if resolveErr != nil {
			err = resolveErr
			return match
		}
		return val
	})

	return result, err
}

// fetchValue centraliza a busca de dados
func (i *Injector) fetchValue(ctx context.Context, sourceType, key string) (string, error) {
	switch sourceType {
	case "env":
		val, _ := i.lookup(key)
		return val, nil

	case "ssm":
		if i.resolver == nil {
			return "", fmt.Errorf("placeholder ${ssm.%s} sem resolvedor configurado", key)
		}
		return i.resolver.Parameter(ctx, key)

	case "secret":
		if i.resolver == nil {
			return "", fmt.Errorf("placeholder ${secret.%s} sem resolvedor configurado", key)
		}
		id, field, hasField := strings.Cut(key, "#")
		raw, err := i.resolver.Secret(ctx, id)
		if err != nil {
			return "", err
		}
		if !hasField {
			return raw, nil
		}
		return extractField(raw, id, field)
	}

	return "", fmt.Errorf("fonte desconhecida: %s", sourceType)
}

// extractField lê uma chave de um segredo armazenado como JSON.
func extractField(raw, id, field string) (string, error) {
	var data map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return "", fmt.Errorf("segredo %s não é um JSON: %w", id, err)
	}
	val, ok := data[field]
	if !ok {
		return "", fmt.Errorf("chave %q não encontrada no segredo %s", field, id)
	}
	return fmt.Sprintf("%v", val), nil
}

func setField(field reflect.Value, val, envVar string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(val)
	case reflect.Int, reflect.Int64, reflect.Int32:
		n, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return fmt.Errorf("variável %s não é um inteiro: %w", envVar, err)
		}
		field.SetInt(n)
	case reflect.Bool:
		b, err := strconv.ParseBool(strings.ToLower(val))
		if err != nil {
			return fmt.Errorf("variável %s não é booleana: %w", envVar, err)
		}
		field.SetBool(b)
	}
	return nil
}
