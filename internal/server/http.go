package server

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/karupanerura/lettercalc/internal/expression"
	"github.com/karupanerura/lettercalc/internal/types"
)

const (
	evaluationsPath = "/v1/evaluations"
	tokenizePath    = "/v1/tokenize"
)

type evaluation struct {
	Name       string        `json:"name"`
	Expression string        `json:"expression"`
	Dialect    string        `json:"dialect"`
	Tokens     string        `json:"tokens,omitempty"`
	State      string        `json:"state"`
	Result     *types.Number `json:"result,omitempty"`
	Error      any           `json:"error,omitempty"`
	CreateTime time.Time     `json:"createTime"`
}

type evaluationRequest struct {
	Expression string             `json:"expression"`
	Dialect    expression.Dialect `json:"dialect"`
}

type tokenizeResponse struct {
	Tokens   []string `json:"tokens"`
	Symbolic string   `json:"symbolic"`
	Mnemonic string   `json:"mnemonic"`
}

type httpHandler struct {
	idBase      uint64
	evaluations sync.Map
	now         func() time.Time
}

func (h *httpHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == tokenizePath:
		if r.Method != http.MethodPost {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		h.tokenize(w, r)

	case r.URL.Path == evaluationsPath:
		switch r.Method {
		case http.MethodGet:
			h.listEvaluations(w, r)
		case http.MethodPost:
			h.createEvaluation(w, r)
		default:
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		}

	case strings.HasPrefix(r.URL.Path, evaluationsPath+"/"):
		id := strings.TrimPrefix(r.URL.Path, evaluationsPath+"/")
		if id == "" || strings.ContainsRune(id, '/') {
			http.Error(w, "Not Found", http.StatusNotFound)
			return
		}
		if r.Method != http.MethodGet {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		h.getEvaluation(w, r, id)

	default:
		http.Error(w, "Not Found", http.StatusNotFound)
	}
}

func decodeRequest(r *http.Request) (*evaluationRequest, error) {
	defer r.Body.Close()

	var req evaluationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, err
	}
	return &req, nil
}

func (h *httpHandler) createEvaluation(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(r)
	if err != nil {
		log.Printf("failed to decode request body: %v", err)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	id := fmt.Sprintf("%012x", atomic.AddUint64(&h.idBase, 1))
	ev := &evaluation{
		Name:       evaluationsPath + "/" + id,
		Expression: req.Expression,
		Dialect:    req.Dialect.String(),
		CreateTime: h.now().UTC(),
	}
	h.evaluate(ev, req.Dialect)
	h.evaluations.Store(id, ev)
	resJSON(w, http.StatusOK, ev)
}

func (h *httpHandler) evaluate(ev *evaluation, dialect expression.Dialect) {
	expr, err := expression.NewTokenizer(dialect).Parse(ev.Expression)
	if err == nil {
		ev.Tokens = expr.Tokens.String()

		var v float64
		v, err = expr.Evaluate()
		if err == nil {
			ev.State = "SUCCEEDED"
			n := types.Number(v)
			ev.Result = &n
			return
		}
	}

	ev.State = "FAILED"
	var exception types.Exception
	if errors.As(err, &exception) {
		ev.Error = exception.Exception()
	} else {
		log.Printf("failed to evaluate expression: %v", err)
		ev.Error = err.Error()
	}
}

func (h *httpHandler) listEvaluations(w http.ResponseWriter, r *http.Request) {
	results := []*evaluation{}
	h.evaluations.Range(func(key, value any) bool {
		results = append(results, value.(*evaluation))
		return true
	})
	sort.Slice(results, func(i, j int) bool {
		if results[i].CreateTime.Equal(results[j].CreateTime) {
			return results[i].Name < results[j].Name
		}
		return results[i].CreateTime.Before(results[j].CreateTime)
	})

	resJSON(w, http.StatusOK, map[string][]*evaluation{"evaluations": results})
}

func (h *httpHandler) getEvaluation(w http.ResponseWriter, r *http.Request, id string) {
	ret, ok := h.evaluations.Load(id)
	if !ok {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	resJSON(w, http.StatusOK, ret.(*evaluation))
}

func (h *httpHandler) tokenize(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(r)
	if err != nil {
		log.Printf("failed to decode request body: %v", err)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	tokens, err := expression.NewTokenizer(req.Dialect).Tokenize(req.Expression)
	if err != nil {
		var exception types.Exception
		if errors.As(err, &exception) {
			resJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": exception.Exception()})
			return
		}
		resJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": err.Error()})
		return
	}

	res := tokenizeResponse{
		Tokens:   make([]string, len(tokens)),
		Symbolic: tokens.String(),
		Mnemonic: tokens.Mnemonic(),
	}
	for i, t := range tokens {
		res.Tokens[i] = t.String()
	}
	resJSON(w, http.StatusOK, res)
}

func NewHTTPHandler() http.Handler {
	return &httpHandler{now: time.Now}
}

func resJSON(w http.ResponseWriter, status int, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Printf("failed to encode response: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return fmt.Errorf("json.MarshalIndent: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(b)+1))
	w.WriteHeader(status)

	if _, err = w.Write(b); err != nil {
		return fmt.Errorf("w.Write: %w", err)
	}
	if _, err = io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("io.WriteString: %w", err)
	}
	return nil
}
