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
// Package serasa é o cliente da API do Serasa Experian para consultas de
// score de fraude e relatórios avulsos de pessoas físicas (CPF) e jurídicas (CNPJ).
//
// Visão Geral:
// O Client obtém, guarda e renova sozinho o token bearer. Toda operação de
// negócio passa por uma guarda que, antes de montar a requisição, verifica a
// credencial e autentica se ela estiver ausente ou vencida. O chamador nunca
// manipula tokens.
//
// Operações:
//   - GetConsumerFraudScore: POST /people/enrichment
//   - GetBusinessFraudScore: POST /companies/enrichment
//   - GetDadosAvulsosPF: POST /consumer-information-report (X-Document-Id = CPF)
//   - GetDadosAvulsosPJ: POST /business-information-report (X-Document-Id = CNPJ)
//
// Erros:
// Falhas no login viram *AuthenticationError, cuja mensagem é sempre
// "authentication with the provider failed"; a causa vai para o log.
// Falhas das operações chegam ao chamador sem reescrita: o erro do transporte
// como veio, ou *APIError para respostas fora da faixa 2xx.
//
// Exemplo:
//
//	client, err := serasa.New(serasa.Config{
//		ClientID:     os.Getenv("SERASA_CLIENT_ID"),
//		ClientSecret: os.Getenv("SERASA_CLIENT_SECRET"),
//		Environment:  serasa.Homologation,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	score, err := client.GetConsumerFraudScore(ctx, serasa.FraudScoreRequest{Document: "12345678900"})
//	if errors.Is(err, serasa.ErrAuthentication) {
//		// credenciais inválidas ou provedor fora do ar
//	}
package serasa
