package serasa

import "encoding/json"

// Address é o endereço opcional enviado na consulta de score.
type Address struct {
	ZipCode string `json:"zipCode"`
}

// Phone é um telefone opcional enviado na consulta de score.
type Phone struct {
	AreaCode string `json:"areaCode"`
	Number   string `json:"number"`
}

// FraudScoreRequest é o corpo das consultas de score de fraude.
type FraudScoreRequest struct {
	Document string   `json:"document" validate:"required"`
	Email    string   `json:"email,omitempty" validate:"omitempty,email"`
	Address  *Address `json:"address,omitempty"`
	Phones   []Phone  `json:"phones,omitempty"`
}

// Variantes pessoa física / jurídica têm o mesmo formato.
type (
	PersonFraudScoreRequest  = FraudScoreRequest
	CompanyFraudScoreRequest = FraudScoreRequest
)

// Score é a nota de um modelo para um documento.
type Score struct {
	Model              string  `json:"model"`
	Score              float64 `json:"score"`
	RecommendationRisk string  `json:"recomendationRiskEnum"`
}

// Enrichment agrupa os scores de um documento consultado.
type Enrichment struct {
	Document string  `json:"document"`
	Scores   []Score `json:"scores"`
}

// FraudScoreResponse é a resposta das consultas de score de fraude.
type FraudScoreResponse struct {
	Enrichments []Enrichment `json:"enrichments"`
}

// ReportParameter é um parâmetro nomeado do relatório.
type ReportParameter struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ReportRequest é o corpo das consultas de dados avulsos.
type ReportRequest struct {
	ReportName       string            `json:"reportName" validate:"required"`
	OptionalFeatures string            `json:"optionalFeatures,omitempty"`
	ReportParameters []ReportParameter `json:"reportParameters,omitempty"`
}

// Features é o pacote de blocos do relatório, repassado sem interpretação.
type Features map[string]any

// Chaves conhecidas do pacote de features de pessoa física.
const (
	FeatureAcao                    = "acao"
	FeatureProtesto                = "protesto"
	FeatureParticipacaoSocietaria  = "participacaoSocietaria"
	FeatureAnotacoesSPC            = "anotacoesSPC"
	FeatureConsultasSPC            = "consultasSPC"
	FeatureAlertaObito             = "alertaObito"
	FeatureScorePositivo           = "scorePositivo"
	FeatureConsultasSerasa         = "consultasSerasa"
	FeatureIndiceRelacionamentoPF  = "indiceRelacionamentoMercadoSetorPF"
	FeatureAtributoCustomizado     = "atributoCustomizado"
	FeatureScoreFraudePF           = "scoreFraudePF"
	FeatureScoreCustomizado        = "scoreCustomizado"
	FeatureRendaEstimadaPF         = "rendaEstimadaPF"
	FeaturePontualidadePagamentoPF = "pontualidadePagamentoPF"
	FeatureCapacidadePagamentoPF   = "capacidadePagamentoPF"
	FeatureComprometimentoRendaPF  = "comprometimentoRendaPF"
)

// Chaves conhecidas do pacote de features de pessoa jurídica.
const (
	FeatureJuntaComercial              = "juntaComercial"
	FeatureQSA                         = "qsa"
	FeatureParticipacoes               = "participacoes"
	FeatureLimiteCredito               = "limiteCredito"
	FeaturePontualidadePagamento       = "pontualidadePagamento"
	FeatureGastoEstimadoPositivo       = "gastoEstimadoPositivo"
	FeatureFaturamentoEstimadoPositivo = "faturamentoEstimadoPositivo"
	FeatureCapacidadeMensalPagamento   = "capacidadeMensalPagamento"
	FeatureIndiceRelacionamentoPJ      = "indiceRelacionamentoMercadoSetorPJ"
	FeatureScoreFraudePJ               = "scoreFraudePJ"
	FeatureAcaoFacon                   = "acaoFacon"
)

// PersonReport é a resposta de dados avulsos PF. Além da identidade, o corpo
// recebido é guardado inteiro e devolvido igual ao ser serializado.
type PersonReport struct {
	CPF      string   `json:"cpf"`
	Nome     string   `json:"nome"`
	Features Features `json:"features,omitempty"`

	raw json.RawMessage
}

func (r *PersonReport) UnmarshalJSON(data []byte) error {
	type alias PersonReport
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*r = PersonReport(a)
	r.raw = append(json.RawMessage(nil), data...)
	return nil
}

func (r PersonReport) MarshalJSON() ([]byte, error) {
	if len(r.raw) > 0 {
		return r.raw, nil
	}
	type alias PersonReport
	return json.Marshal(alias(r))
}

// Raw devolve o corpo original recebido do provedor.
func (r *PersonReport) Raw() json.RawMessage { return r.raw }

// CompanyReport é a resposta de dados avulsos PJ.
type CompanyReport struct {
	CNPJ        string   `json:"cnpj"`
	RazaoSocial string   `json:"razaoSocial"`
	Features    Features `json:"features,omitempty"`

	raw json.RawMessage
}

func (r *CompanyReport) UnmarshalJSON(data []byte) error {
	type alias CompanyReport
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*r = CompanyReport(a)
	r.raw = append(json.RawMessage(nil), data...)
	return nil
}

func (r CompanyReport) MarshalJSON() ([]byte, error) {
	if len(r.raw) > 0 {
		return r.raw, nil
	}
	type alias CompanyReport
	return json.Marshal(alias(r))
}

// Raw devolve o corpo original recebido do provedor.
func (r *CompanyReport) Raw() json.RawMessage { return r.raw }
