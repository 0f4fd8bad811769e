package query

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var eventTable = Table{
	Name:  "evento",
	Key:   "id",
	Touch: "atualizado_em",
	Fields: []Field{
		{Name: "titulo", Column: "titulo", Kind: String},
		{Name: "data", Column: "data", Kind: Time},
		{Name: "local", Column: "local", Kind: String, Nullable: true},
		{Name: "vagas", Column: "vagas", Kind: Int},
	},
}

func decode(t *testing.T, body string) map[string]interface{} {
	t.Helper()
	payload := map[string]interface{}{}
	require.NoError(t, json.Unmarshal([]byte(body), &payload))
	return payload
}

func TestAssignmentsOnlyPresentFields(t *testing.T) {
	assignments, err := eventTable.Assignments(decode(t, `{"titulo":"Palestra X","ignorado":true}`))
	require.NoError(t, err)

	assert.Equal(t, []Assignment{{Column: "titulo", Value: "Palestra X"}}, assignments)
}

func TestAssignmentsKeepFieldOrder(t *testing.T) {
	assignments, err := eventTable.Assignments(decode(t, `{"vagas":0,"titulo":"B"}`))
	require.NoError(t, err)

	require.Len(t, assignments, 2)
	assert.Equal(t, "titulo", assignments[0].Column)
	assert.Equal(t, "vagas", assignments[1].Column)
	assert.Equal(t, int64(0), assignments[1].Value, "zero is a value, not an absent field")
}

func TestAssignmentsEmptyPayload(t *testing.T) {
	_, err := eventTable.Assignments(decode(t, `{}`))
	assert.ErrorIs(t, err, ErrNoFieldsProvided)

	_, err = eventTable.Assignments(decode(t, `{"outro":"x"}`))
	assert.ErrorIs(t, err, ErrNoFieldsProvided)
}

func TestAssignmentsTriState(t *testing.T) {
	cases := []struct {
		name  string
		body  string
		value interface{}
	}{
		{"explicit null clears", `{"local":null}`, nil},
		{"empty string clears", `{"local":""}`, nil},
		{"value sets", `{"local":"Auditório"}`, "Auditório"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assignments, err := eventTable.Assignments(decode(t, tc.body))
			require.NoError(t, err)
			require.Len(t, assignments, 1)
			assert.Equal(t, "local", assignments[0].Column)
			assert.Equal(t, tc.value, assignments[0].Value)
		})
	}
}

func TestAssignmentsRejectInvalidValues(t *testing.T) {
	for _, body := range []string{
		`{"titulo":null}`,
		`{"titulo":""}`,
		`{"titulo":12}`,
		`{"data":"amanhã"}`,
		`{"vagas":1.5}`,
	} {
		_, err := eventTable.Assignments(decode(t, body))
		var fieldErr *FieldError
		assert.ErrorAs(t, err, &fieldErr, body)
	}
}

func TestAssignmentsRunFieldValidation(t *testing.T) {
	table := Table{
		Name: "usuario",
		Key:  "id",
		Fields: []Field{
			{Name: "email", Column: "email", Kind: String, Validate: func(v interface{}) error {
				if !strings.Contains(v.(string), "@") {
					return errors.New("deve ser um email válido")
				}
				return nil
			}},
			{Name: "apelido", Column: "apelido", Kind: String, Nullable: true, Validate: func(interface{}) error {
				return errors.New("nunca aceito")
			}},
		},
	}

	_, err := table.Assignments(decode(t, `{"email":"sem-arroba"}`))
	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "campo 'email' deve ser um email válido", fieldErr.Error())

	assignments, err := table.Assignments(decode(t, `{"email":"ana@x.com","apelido":null}`))
	require.NoError(t, err)
	assert.Equal(t, []Assignment{{Column: "email", Value: "ana@x.com"}, {Column: "apelido", Value: nil}}, assignments)
}

func TestAssignmentsParseTime(t *testing.T) {
	assignments, err := eventTable.Assignments(decode(t, `{"data":"2024-05-01T00:00:00Z"}`))
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), assignments[0].Value)
}

func TestParseTimeLayouts(t *testing.T) {
	for _, s := range []string{"2024-05-01T10:00:00.000Z", "2024-05-01T10:00:00-03:00", "2024-05-01T10:00", "2024-05-01"} {
		_, err := ParseTime(s)
		assert.NoError(t, err, s)
	}
}

func TestUpdateQueryBuilder(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	assignments := []Assignment{{Column: "titulo", Value: "X"}, {Column: "local", Value: nil}}

	sql, values := eventTable.UpdateQueryBuilder(assignments, 7, now)

	assert.Equal(t, "UPDATE evento SET titulo = ?, local = ?, atualizado_em = ? WHERE id = ?", sql)
	assert.Equal(t, []interface{}{"X", nil, now, int64(7)}, values)
}

func TestToMapIncludesTouch(t *testing.T) {
	now := time.Now()
	updates := eventTable.ToMap([]Assignment{{Column: "titulo", Value: "X"}}, now)

	assert.Equal(t, map[string]interface{}{"titulo": "X", "atualizado_em": now}, updates)
}

func TestRebind(t *testing.T) {
	q := "UPDATE t SET a = ?, b = '?' WHERE id = ?"

	assert.Equal(t, q, Rebind(Question, q))
	assert.Equal(t, "UPDATE t SET a = $1, b = '?' WHERE id = $2", Rebind(Dollar, q))
}
