package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrorBody é o corpo de erro de todas as rotas.
type ErrorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, code int, msg, field string) {
	WriteJSON(w, code, ErrorBody{Error: msg, Field: field})
}

/*
decodeStrict decodifica JSON rejeitando chaves desconhecidas
e garantindo que exista exatamente UM objeto JSON.
*/
func DecodeStrict(r io.Reader, dst any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return err
	}
	// Garante que não tenha lixo após o objeto JSON
	if dec.More() {
		return errors.New("unexpected additional JSON content")
	}

	return nil
}

// DescribeDecodeError traduz o erro do decoder em (campo, mensagem) para o corpo 400.
func DescribeDecodeError(err error) (field, msg string) {
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &typeErr):
		return typeErr.Field, fmt.Sprintf("expected %s", typeErr.Type)
	case errors.As(err, &syntaxErr):
		return "", fmt.Sprintf("malformed json at offset %d", syntaxErr.Offset)
	case errors.As(err, &maxErr):
		return "", fmt.Sprintf("body larger than %d bytes", maxErr.Limit)
	case errors.Is(err, io.EOF):
		return "", "empty body"
	}
	return "", err.Error()
}
