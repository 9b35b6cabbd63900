package emulator

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

// RouteConfig para cada rota de negócio
type RouteConfig struct {
	Path              string         `json:"path"`
	Method            string         `json:"method"`
	Response          *Response      `json:"response,omitempty"` // Para respostas estáticas
	Data              []interface{}  `json:"data,omitempty"`
	HeaderParams      []ParamMapping `json:"header_params,omitempty"`
	BodyParams        []ParamMapping `json:"body_params,omitempty"`
	PathParams        []ParamMapping `json:"path_params,omitempty"`
	Wrap              string         `json:"wrap,omitempty"` // Embrulha o match em {wrap: [item]}
	ResponseOnMatch   *Response      `json:"response_on_match,omitempty"`
	ResponseOnNoMatch *Response      `json:"response_on_no_match,omitempty"`
}

func (route RouteConfig) NewHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if route.Response != nil && len(route.Data) == 0 {
			sendResponse(w, route.Response.Status, route.Response.Body)
			return
		}

		params := make(map[string]string)

		for _, p := range route.HeaderParams {
			if value := r.Header.Get(p.Name); value != "" {
				params[p.MapsTo] = value
			}
		}

		vars := mux.Vars(r)
		for _, p := range route.PathParams {
			if value, ok := vars[p.Name]; ok {
				params[p.MapsTo] = value
			}
		}

		if len(route.BodyParams) > 0 {
			var body map[string]interface{}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				sendResponse(w, http.StatusBadRequest, map[string]string{"message": "invalid JSON body"})
				return
			}
			for _, p := range route.BodyParams {
				if value, ok := body[p.Name]; ok {
					params[p.MapsTo] = fmt.Sprintf("%v", value)
				}
			}
		}

		var matches []interface{}
		for _, item := range route.Data {
			itemMap, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			match := true
			for field, value := range params {
				itemValue, exists := itemMap[field]
				if !exists || !valuesMatch(itemValue, value) {
					match = false
					break
				}
			}
			if match {
				matches = append(matches, item)
			}
		}

		if len(matches) == 0 {
			resp := route.ResponseOnNoMatch
			if resp == nil {
				resp = &Response{Status: 404, Body: map[string]string{"message": "not found"}}
			}
			sendResponse(w, resp.Status, resp.Body)
			return
		}

		status := http.StatusOK
		if route.ResponseOnMatch != nil && route.ResponseOnMatch.Status != 0 {
			status = route.ResponseOnMatch.Status
		}

		var body interface{}
		switch {
		case route.Wrap != "":
			body = map[string]interface{}{route.Wrap: matches}
		case len(matches) == 1:
			body = matches[0]
		default:
			body = matches
		}

		sendResponse(w, status, body)
	}
}

func sendResponse(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		if err := json.NewEncoder(w).Encode(body); err != nil {
			log.Error().Err(err).Msg("Erro ao encode response")
		}
	}
}

func valuesMatch(a interface{}, b string) bool {
	switch v := a.(type) {
	case string:
		return v == b
	case float64:
		f, err := strconv.ParseFloat(b, 64)
		return err == nil && v == f
	case int:
		i, err := strconv.Atoi(b)
		return err == nil && v == i
	case bool:
		return strings.ToLower(b) == fmt.Sprintf("%v", v)
	default:
		return false
	}
}
