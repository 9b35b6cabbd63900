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
//
// Package envloader carrega variáveis de ambiente diretamente para campos de
// uma struct Go a partir das tags `env`, `envDefault` e `envRequired`.
//
// Visão Geral:
// É usado pelo gateway para montar a configuração sem arquivo YAML
// (credenciais do Serasa Experian, Redis, tabela de auditoria). Suporta
// string, inteiros, bool, float, time.Duration, []string separados por
// vírgula e structs aninhadas (inclusive ponteiros).
//
// Exemplo:
//
//	type BureauConf struct {
//		ClientID    string        `env:"SERASA_CLIENT_ID" envRequired:"true"`
//		Environment string        `env:"SERASA_ENVIRONMENT" envDefault:"homologation"`
//		Timeout     time.Duration `env:"SERASA_TIMEOUT" envDefault:"30s"`
//	}
//
//	var cfg BureauConf
//	if err := envloader.Load(&cfg); err != nil {
//		log.Fatal(err)
//	}
//
// Para testes ou múltiplas instâncias, New aceita WithPrefix e WithLookup.
package envloader
