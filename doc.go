// Package serasaexperianclient reúne o cliente autenticado da API do Serasa
// Experian e o gateway HTTP construído sobre ele.
//
// Visão Geral:
// O pacote `serasa` autentica sob demanda (login com Basic auth), guarda o
// token bearer até um minuto antes da expiração informada pelo provedor e o
// injeta nas quatro consultas de negócio: score de fraude PF/PJ e dados
// avulsos PF/PJ. Chamadas concorrentes compartilham um único login.
//
// Sub-Pacotes Principais:
//
// 1. serasa: cliente, tipos de requisição/resposta e erros.
// 2. pkg/auth: ciclo de vida genérico do token (Manager) e login Basic.
// 3. pkg/consulta: cache Redis (pkg/cache) e trilha de auditoria DynamoDB
// (pkg/audit) em volta do cliente.
// 4. pkg/transport: gateway HTTP (gorilla/mux) com correlation id e latência.
// 5. pkg/config, envloader e pkg/secrets: configuração YAML (arquivo, S3 ou
// DynamoDB), variáveis de ambiente e segredos do SSM / Secrets Manager.
// 6. tools/emulator: sandbox local da API para desenvolvimento.
//
// Exemplo de Início Rápido:
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
//	resp, err := client.GetConsumerFraudScore(ctx, serasa.PersonFraudScoreRequest{
//		Document: "12345678909",
//	})
//	if errors.Is(err, serasa.ErrAuthentication) {
//		// credenciais inválidas ou provedor indisponível no login
//	}
package serasaexperianclient
