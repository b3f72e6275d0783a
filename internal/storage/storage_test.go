package storage

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/tally/internal/ledger"
	"github.com/cleared-dev/tally/internal/model"
)

func sampleState() model.State {
	s := ledger.InitialState()
	s = ledger.Apply(s, ledger.AddBank{Bank: model.Bank{
		ID: "b1", Name: "Nubank", Kind: model.AccountDigital,
		Balance: decimal.RequireFromString("100"), Color: "#8b5cf6",
	}})
	s = ledger.Apply(s, ledger.AddTransaction{Transaction: model.Transaction{
		ID: "t1", Description: "Mercado", Amount: decimal.RequireFromString("12.5"),
		Date: model.NewDate(2025, 1, 15), Direction: model.DirectionExpense,
		CategoryID: "1", BankID: "b1",
	}})
	s = ledger.Apply(s, ledger.AddFixedEntry{Entry: model.FixedEntry{
		ID: "f1", Description: "Aluguel", Amount: decimal.RequireFromString("1500"),
		DueDay: 5, Direction: model.DirectionExpense, CategoryID: "1", BankID: "b1", Active: true,
	}})
	return s
}

func assertSameState(t *testing.T, want, got model.State) {
	t.Helper()
	w, err := Encode(want)
	require.NoError(t, err)
	g, err := Encode(got)
	require.NoError(t, err)
	assert.JSONEq(t, string(w), string(g))
}

func TestFileSlot_ReadMissing(t *testing.T) {
	slot := NewFileSlot(t.TempDir())
	_, err := slot.Read("financeData")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileSlot_WriteReplaces(t *testing.T) {
	dir := t.TempDir()
	slot := NewFileSlot(filepath.Join(dir, "data"))

	require.NoError(t, slot.Write("financeData", []byte(`{"a":1}`)))
	require.NoError(t, slot.Write("financeData", []byte(`{"a":2}`)))

	data, err := slot.Read("financeData")
	require.NoError(t, err)
	assert.Equal(t, `{"a":2}`, string(data))

	entries, err := os.ReadDir(filepath.Join(dir, "data"))
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temp files left behind")
	assert.Equal(t, "financeData.json", entries[0].Name())
}

func TestFileSlot_RejectsPathKeys(t *testing.T) {
	slot := NewFileSlot(t.TempDir())
	for _, key := range []string{"", "..", "a/b", `a\b`} {
		assert.Error(t, slot.Write(key, []byte("x")), key)
	}
}

func TestSQLiteSlot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db", "tally.db")

	slot, err := NewSQLiteSlot(path)
	require.NoError(t, err)

	_, err = slot.Read("financeData")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, slot.Write("financeData", []byte("first")))
	require.NoError(t, slot.Write("financeData", []byte("second")))
	data, err := slot.Read("financeData")
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
	require.NoError(t, slot.Close())

	reopened, err := NewSQLiteSlot(path)
	require.NoError(t, err)
	defer reopened.Close()
	data, err = reopened.Read("financeData")
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestAdapter_LoadEmpty(t *testing.T) {
	a := NewAdapter(NewFileSlot(t.TempDir()), "", nil)
	_, ok := a.Load()
	assert.False(t, ok)
}

func TestAdapter_SaveLoad(t *testing.T) {
	a := NewAdapter(NewFileSlot(t.TempDir()), "", nil)
	want := sampleState()
	require.NoError(t, a.Save(want))

	got, ok := a.Load()
	require.True(t, ok)
	assertSameState(t, want, got)
}

func TestAdapter_LoadMalformed(t *testing.T) {
	slot := NewFileSlot(t.TempDir())
	require.NoError(t, slot.Write(DefaultKey, []byte("{not json")))

	var buf bytes.Buffer
	a := NewAdapter(slot, "", slog.New(slog.NewTextHandler(&buf, nil)))
	_, ok := a.Load()
	assert.False(t, ok)
	assert.Contains(t, buf.String(), "malformed")

	st := a.Open()
	assertSameState(t, ledger.InitialState(), st.State())
}

func TestAdapter_LoadLogsDanglingReferences(t *testing.T) {
	s := sampleState()
	s.Transactions[0].BankID = "gone"

	slot := NewFileSlot(t.TempDir())
	data, err := Encode(s)
	require.NoError(t, err)
	require.NoError(t, slot.Write(DefaultKey, data))

	var buf bytes.Buffer
	a := NewAdapter(slot, "", slog.New(slog.NewTextHandler(&buf, nil)))
	got, ok := a.Load()
	require.True(t, ok, "issues are logged, not fatal")
	assert.Equal(t, "gone", got.Transactions[0].BankID)
	assert.Contains(t, buf.String(), string(ledger.RuleBankRef))
}

func TestAdapter_OpenPersistsDispatches(t *testing.T) {
	slot := NewFileSlot(t.TempDir())
	a := NewAdapter(slot, "", nil)

	st := a.Open()
	st.Dispatch(ledger.AddBank{Bank: model.Bank{ID: "b1", Name: "Inter", Kind: model.AccountChecking, Balance: decimal.RequireFromString("10")}})

	reloaded := NewAdapter(slot, "", nil).Open()
	b, ok := reloaded.State().Bank("b1")
	require.True(t, ok)
	assert.Equal(t, "Inter", b.Name)
	assert.Len(t, reloaded.State().Categories, 5)
}

func TestAdapter_SavesToSQLite(t *testing.T) {
	slot, err := NewSQLiteSlot(filepath.Join(t.TempDir(), "tally.db"))
	require.NoError(t, err)
	defer slot.Close()

	a := NewAdapter(slot, "", nil)
	want := sampleState()
	require.NoError(t, a.Save(want))
	got, ok := a.Load()
	require.True(t, ok)
	assertSameState(t, want, got)
}

func TestEncode_EmptyCollectionsAreArrays(t *testing.T) {
	data, err := Encode(model.State{})
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, field := range []string{"bancos", "categorias", "transacoes", "lancamentosFixos"} {
		assert.Equal(t, "[]", string(raw[field]), field)
	}
}

func TestExport_Document(t *testing.T) {
	at := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)
	data, err := Export(sampleState(), at)
	require.NoError(t, err)

	assert.Contains(t, string(data), "\n  \"bancos\": [")
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "2025-03-04T05:06:07.000Z", doc["dataExportacao"])
	tx := doc["transacoes"].([]any)[0].(map[string]any)
	assert.Equal(t, 12.5, tx["valor"])
	assert.Equal(t, "2025-01-15", tx["data"])
	assert.Equal(t, "Saída", tx["tipo"])
}

func TestExportImport_RoundTrip(t *testing.T) {
	want := sampleState()
	want.Settings.DarkTheme = true

	data, err := Export(want, time.Now())
	require.NoError(t, err)

	got, err := Import(data, model.DefaultSettings())
	require.NoError(t, err)
	assertSameState(t, want, got)
}

func TestImport_Defaults(t *testing.T) {
	current := model.Settings{Currency: "USD", Language: "en-US"}
	got, err := Import([]byte(`{"bancos":[],"categorias":[],"transacoes":[]}`), current)
	require.NoError(t, err)

	assert.NotNil(t, got.FixedEntries)
	assert.Empty(t, got.FixedEntries)
	assert.Empty(t, got.Categories)
	assert.Equal(t, current, got.Settings)
}

func TestImport_Settings(t *testing.T) {
	current := model.Settings{Currency: "EUR", DarkTheme: true, Language: "pt-BR", FirstRun: true}
	tests := []struct {
		name     string
		settings string
		want     model.Settings
	}{
		{"absent keeps current", ``, current},
		{"null keeps current", `,"configuracoes":null`, current},
		{"partial replaces wholesale", `,"configuracoes":{"moeda":"USD"}`, model.Settings{Currency: "USD"}},
		{"empty object clears", `,"configuracoes":{}`, model.Settings{}},
		{
			"full document",
			`,"configuracoes":{"moeda":"BRL","temaEscuro":false,"idioma":"en-US","primeiroAcesso":false}`,
			model.Settings{Currency: "BRL", Language: "en-US"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := `{"bancos":[],"categorias":[],"transacoes":[]` + tt.settings + `}`
			got, err := Import([]byte(doc), current)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Settings)
		})
	}
}

func TestImport_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `bancos`},
		{"not an object", `[1,2]`},
		{"missing banks", `{"categorias":[],"transacoes":[]}`},
		{"missing categories", `{"bancos":[],"transacoes":[]}`},
		{"missing transactions", `{"bancos":[],"categorias":[]}`},
		{"null transactions", `{"bancos":[],"categorias":[],"transacoes":null}`},
		{"banks not array", `{"bancos":{},"categorias":[],"transacoes":[]}`},
		{"bad amount", `{"bancos":[],"categorias":[],"transacoes":[{"id":"t","valor":"abc"}]}`},
		{"bad date", `{"bancos":[],"categorias":[],"transacoes":[{"id":"t","data":"15/01/2025"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Import([]byte(tt.doc), model.DefaultSettings())
			assert.ErrorIs(t, err, ErrInvalidFormat)
		})
	}
}

func TestReset(t *testing.T) {
	current := model.Settings{Currency: "EUR", DarkTheme: true, Language: "pt-BR"}
	once := Reset(current)

	assert.Empty(t, once.Banks)
	assert.Empty(t, once.Transactions)
	assert.Empty(t, once.FixedEntries)
	assert.Len(t, once.Categories, 5)
	assert.Equal(t, current, once.Settings)

	assertSameState(t, once, Reset(once.Settings))
}

func TestExportFileName(t *testing.T) {
	assert.Equal(t, "financeiro-backup-2025-07-01.json", ExportFileName(time.Date(2025, 7, 1, 23, 0, 0, 0, time.UTC)))
}
