package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault_HasAllRequired(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	for _, key := range required {
		if c.Get(key) == key {
			t.Errorf("message %s is missing", key)
		}
	}
}

func TestFormat(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		key  string
		args []any
		want string
	}{
		{
			name: "no_args",
			key:  CommonCancel,
			want: "操作をキャンセルしました。",
		},
		{
			name: "single_placeholder",
			key:  ModificationItemTooLong,
			args: []any{20},
			want: "⚠️ 品名は20文字以内で入力してください。",
		},
		{
			name: "multiple_placeholders",
			key:  ModificationSuccess,
			args: []any{"火曜日", "燃えるごみ", "雨天時は翌週"},
			want: "✅【火曜日】の予定を更新しました。\n《品目》\n燃えるごみ\n《メモ》\n雨天時は翌週",
		},
		{
			name: "placeholder_text_in_argument_is_not_expanded",
			key:  QueryAltText,
			args: []any{"{1}", "びん"},
			want: "{1}のごみは「びん」です。",
		},
		{
			name: "unknown_key_falls_back_to_key",
			key:  "missing.key",
			want: "missing.key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Format(tt.key, tt.args...); got != tt.want {
				t.Errorf("Format(%s) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{name: "missing_keys", input: "common:\n  cancel: x\n", wantErr: "missing messages"},
		{name: "invalid_yaml", input: "common: [", wantErr: "failed to parse"},
		{name: "non_string_leaf", input: "common:\n  cancel: [1, 2]\n", wantErr: "must be a string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_Override(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messages.yaml")
	if err := os.WriteFile(path, []byte("common:\n  cancel: \"やめました\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := c.Get(CommonCancel); got != "やめました" {
		t.Errorf("overridden message = %q", got)
	}
	if got := c.Get(CommonError); got == CommonError {
		t.Error("non-overridden message should come from the embedded catalog")
	}
}

func TestLoad_EmptyPath(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if c.Get(ErrorTimeout) == ErrorTimeout {
		t.Error("embedded catalog should be used for an empty path")
	}
}
