package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeCommand_Variants(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Command
	}{
		{
			name: "click",
			raw:  `{"type":"click","selector":"#go"}`,
			want: ClickCommand{Selector: "#go"},
		},
		{
			name: "click_coords with string numbers",
			raw:  `{"type":"click_coords","x":"10","y":20.0}`,
			want: ClickCoordsCommand{X: 10, Y: 20},
		},
		{
			name: "scroll defaults",
			raw:  `{"type":"scroll"}`,
			want: ScrollCommand{Direction: ScrollDown, Amount: DefaultScrollAmount},
		},
		{
			name: "scroll up on element",
			raw:  `{"type":"scroll","selector":".feed","direction":"up","amount":50}`,
			want: ScrollCommand{Selector: ".feed", Direction: ScrollUp, Amount: 50},
		},
		{
			name: "type clears by default",
			raw:  `{"type":"type","selector":"#q","value":"hello"}`,
			want: TypeCommand{Selector: "#q", Value: "hello", Clear: true},
		},
		{
			name: "type without clearing",
			raw:  `{"type":"type","selector":"#q","value":"hello","clear":false}`,
			want: TypeCommand{Selector: "#q", Value: "hello", Clear: false},
		},
		{
			name: "type with string false",
			raw:  `{"type":"type","selector":"#q","value":"hello","clear":"false"}`,
			want: TypeCommand{Selector: "#q", Value: "hello", Clear: false},
		},
		{
			name: "type with numeric clear",
			raw:  `{"type":"type","selector":"#q","value":"hello","clear":0}`,
			want: TypeCommand{Selector: "#q", Value: "hello", Clear: false},
		},
		{
			name: "type with unreadable clear keeps the default",
			raw:  `{"type":"type","selector":"#q","value":"hello","clear":"yes please"}`,
			want: TypeCommand{Selector: "#q", Value: "hello", Clear: true},
		},
		{
			name: "type_nth zero means first",
			raw:  `{"type":"type_nth","nth":0,"value":"x"}`,
			want: TypeNthCommand{Nth: 1, Value: "x", Clear: true},
		},
		{
			name: "select numeric value",
			raw:  `{"type":"select","selector":"#n","value":42}`,
			want: SelectCommand{Selector: "#n", Value: "42"},
		},
		{
			name: "navigate",
			raw:  `{"type":"navigate","url":"https://example.com"}`,
			want: NavigateCommand{URL: "https://example.com"},
		},
		{
			name: "eval empty code is allowed",
			raw:  `{"type":"eval","code":""}`,
			want: EvalCommand{Code: ""},
		},
		{
			name: "extract defaults",
			raw:  `{"type":"extract"}`,
			want: ExtractCommand{MaxChars: DefaultExtractChars},
		},
		{
			name: "screenshot clamps quality",
			raw:  `{"type":"screenshot","quality":500}`,
			want: ScreenshotCommand{Quality: DefaultJPEGQuality, MaxWidth: DefaultShotWidth},
		},
		{
			name: "unknown type",
			raw:  `{"type":"hover","selector":"#x"}`,
			want: UnsupportedCommand{Kind: "hover"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeCommand([]byte(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeCommand_Checkbox(t *testing.T) {
	got, err := DecodeCommand([]byte(`{"type":"checkbox","selector":"#agree","checked":true}`))
	require.NoError(t, err)

	cb, ok := got.(CheckboxCommand)
	require.True(t, ok)
	require.NotNil(t, cb.Checked)
	assert.True(t, *cb.Checked)

	got, err = DecodeCommand([]byte(`{"type":"checkbox","selector":"#agree"}`))
	require.NoError(t, err)
	assert.Nil(t, got.(CheckboxCommand).Checked)
}

func TestDecodeCommand_CheckboxLenientState(t *testing.T) {
	tests := []struct {
		raw  string
		want *bool
	}{
		{`"true"`, boolPtr(true)},
		{`"False"`, boolPtr(false)},
		{`1`, boolPtr(true)},
		{`"on"`, nil},
		{`{}`, nil},
		{`null`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := DecodeCommand([]byte(`{"type":"checkbox","selector":"#agree","checked":` + tt.raw + `}`))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.(CheckboxCommand).Checked)
		})
	}
}

func boolPtr(v bool) *bool { return &v }

func TestDecodeCommand_Locators(t *testing.T) {
	got, err := DecodeCommand([]byte(`{"type":"click","selector":"a","tab_url":"*://example.com/*","tab_index":2}`))
	require.NoError(t, err)

	loc := got.Locator()
	assert.Equal(t, "*://example.com/*", loc.TabURL)
	require.NotNil(t, loc.TabIndex)
	assert.Equal(t, 2, *loc.TabIndex)

	got, err = DecodeCommand([]byte(`{"type":"click","selector":"a","tab_index":null}`))
	require.NoError(t, err)
	assert.Nil(t, got.Locator().TabIndex)
}

func TestDecodeCommand_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ``},
		{"null", `null`},
		{"not an object", `[1,2]`},
		{"click without selector", `{"type":"click"}`},
		{"click_coords without y", `{"type":"click_coords","x":1}`},
		{"type without value", `{"type":"type","selector":"#q"}`},
		{"type_nth negative", `{"type":"type_nth","nth":-2,"value":"x"}`},
		{"select object value", `{"type":"select","selector":"#s","value":{"a":1}}`},
		{"navigate without url", `{"type":"navigate"}`},
		{"eval without code", `{"type":"eval"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeCommand([]byte(tt.raw))
			assert.ErrorIs(t, err, ErrInvalidCommand)
		})
	}
}

func TestScrollCommand_Delta(t *testing.T) {
	assert.Equal(t, -100, ScrollCommand{Direction: ScrollUp, Amount: 100}.Delta())
	assert.Equal(t, 100, ScrollCommand{Direction: ScrollDown, Amount: 100}.Delta())
	assert.Equal(t, 100, ScrollCommand{Amount: 100}.Delta())
}

func TestCommandEnvelope_Unmarshal(t *testing.T) {
	var batch struct {
		Commands []CommandEnvelope `json:"commands"`
	}
	raw := `{"commands":[
		{"id":1,"command":{"type":"click","selector":"#a"}},
		{"id":"2","command":{"type":"type"}},
		{"id":3,"command":{"type":"teleport"}}
	]}`
	require.NoError(t, json.Unmarshal([]byte(raw), &batch))
	require.Len(t, batch.Commands, 3)

	assert.Equal(t, int64(1), batch.Commands[0].ID)
	assert.NoError(t, batch.Commands[0].Err)
	assert.Equal(t, "click", batch.Commands[0].TypeName())

	assert.Equal(t, int64(2), batch.Commands[1].ID)
	assert.ErrorIs(t, batch.Commands[1].Err, ErrInvalidCommand)
	assert.Equal(t, "invalid", batch.Commands[1].TypeName())

	assert.Equal(t, "teleport", batch.Commands[2].TypeName())
}

func TestCommandEnvelope_BadID(t *testing.T) {
	var env CommandEnvelope
	err := json.Unmarshal([]byte(`{"id":"abc","command":{"type":"click","selector":"a"}}`), &env)
	assert.Error(t, err)
}
