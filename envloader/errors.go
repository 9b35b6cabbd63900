// Copyright 2025 Raywall Malheiros de Souza
// Licensed under the Mozilla Public License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	https://www.mozilla.org/en-US/MPL/2.0/
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package envloader

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ErrMissingVar permite testar com errors.Is a ausência de uma variável obrigatória.
var ErrMissingVar = errors.New("envloader: required variable not set")

// sensitiveMarkers identificam variáveis cujo valor nunca deve aparecer em mensagens de erro.
var sensitiveMarkers = []string{"SECRET", "PASSWORD", "TOKEN", "KEY"}

// InvalidConfigError é retornado quando Load recebe algo que não é ponteiro para struct.
type InvalidConfigError struct {
	Value reflect.Type
}

func (e *InvalidConfigError) Error() string {
	switch {
	case e.Value == nil:
		return "envloader: config must be a pointer to struct, got nil"
	case e.Value.Kind() != reflect.Ptr:
		return fmt.Sprintf("envloader: config must be a pointer to struct, got %s", e.Value.Kind())
	default:
		return fmt.Sprintf("envloader: config must be a pointer to struct, got pointer to %s", e.Value.Elem().Kind())
	}
}

// FieldError indica que o valor de EnvVar não pôde ser convertido para o campo.
// Valores de variáveis sensíveis (client secret, senhas, tokens) são mascarados.
type FieldError struct {
	FieldName string
	EnvVar    string
	Value     string
	Err       error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("envloader: error setting field %s from env %s=%s: %v",
		e.FieldName, e.EnvVar, maskValue(e.EnvVar, e.Value), e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// MissingVarError é retornado quando uma variável `envRequired:"true"` está vazia e sem default.
type MissingVarError struct {
	FieldName string
	EnvVar    string
}

func (e *MissingVarError) Error() string {
	return fmt.Sprintf("envloader: required env %s for field %s is not set", e.EnvVar, e.FieldName)
}

func (e *MissingVarError) Is(target error) bool {
	return target == ErrMissingVar
}

// UnsupportedTypeError indica um tipo de campo sem conversão (maps, interfaces, slices não-string).
type UnsupportedTypeError struct {
	Type reflect.Type
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("envloader: unsupported type %s", e.Type)
}

func maskValue(envVar, value string) string {
	upper := strings.ToUpper(envVar)
	for _, marker := range sensitiveMarkers {
		if strings.Contains(upper, marker) {
			return "***"
		}
	}
	return value
}
