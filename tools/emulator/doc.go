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
// Package emulator fornece uma sandbox local da API do Serasa Experian,
// configurável via JSON, para desenvolver e testar integrações sem depender
// do ambiente de homologação.
//
// O emulador reproduz o contrato de autenticação (login com Basic auth e corpo
// `{}`, devolvendo accessToken e expiresIn como string) e exige o token bearer
// emitido por ele em todas as demais rotas. Cada rota cruza parâmetros de
// cabeçalho (ex: `X-Document-Id`), do corpo JSON (ex: `document`) e do path com
// um dataset em memória, devolvendo a resposta de "match" ou de "no match".
//
// Funcionalidades Principais:
//   - Login: valida client id/secret e emite tokens com validade configurável.
//   - Rotas padrão: `/people/enrichment`, `/companies/enrichment`,
//     `/consumer-information-report` e `/business-information-report`.
//   - Filtragem de Dados: `header_params`, `body_params` e `path_params`
//     mapeados para campos do dataset.
//   - Respostas Condicionais: "response_on_match" e "response_on_no_match".
//
// Estrutura de Configuração (JSON):
//
//	{
//	  "port": 9090,
//	  "client_id": "sandbox",
//	  "client_secret": "sandbox",
//	  "expires_in": 3600,
//	  "routes": [
//	    {
//	      "path": "/consumer-information-report",
//	      "method": "POST",
//	      "header_params": [{"name": "X-Document-Id", "maps_to": "cpf"}],
//	      "data": [{"cpf": "12345678909", "nome": "MARIA"}],
//	      "response_on_no_match": {"status": 404, "body": {"message": "not found"}}
//	    }
//	  ]
//	}
//
// Sem arquivo de configuração, Default() sobe as quatro rotas com um dataset
// de exemplo.
package emulator
