package cli

import (
	"bytes"
	"testing"
)

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    OutputFormat
		wantErr bool
	}{
		{name: "text format", input: "text", want: OutputFormatText},
		{name: "json format", input: "json", want: OutputFormatJSON},
		{name: "empty string defaults to text", input: "", want: OutputFormatText},
		{name: "invalid format", input: "xml", want: "", wantErr: true},
		{name: "invalid format yaml", input: "yaml", want: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseOutputFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseOutputFormat() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("ParseOutputFormat() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOutputWriter_WriteJSON(t *testing.T) {
	type testData struct {
		Name  string `json:"name"`
		Value int    `json:"value"`
	}

	var buf bytes.Buffer
	o := &OutputWriter{
		format: OutputFormatJSON,
		writer: &buf,
	}

	if err := o.WriteJSON(testData{Name: "test", Value: 42}); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	expected := "{\n  \"name\": \"test\",\n  \"value\": 42\n}\n"
	if got := buf.String(); got != expected {
		t.Errorf("WriteJSON() output = %q, want %q", got, expected)
	}
}

func TestOutputWriter_Write(t *testing.T) {
	type testData struct {
		Name string `json:"name"`
	}

	t.Run("json format writes JSON", func(t *testing.T) {
		var buf bytes.Buffer
		o := &OutputWriter{format: OutputFormatJSON, writer: &buf}

		textCalled := false
		if err := o.Write(testData{Name: "test"}, func() { textCalled = true }); err != nil {
			t.Errorf("Write() error = %v", err)
		}
		if textCalled {
			t.Error("Write() called textFunc when format is JSON")
		}
		if buf.Len() == 0 {
			t.Error("Write() did not write JSON output")
		}
	})

	t.Run("text format calls textFunc", func(t *testing.T) {
		var buf bytes.Buffer
		o := &OutputWriter{format: OutputFormatText, writer: &buf}

		textCalled := false
		if err := o.Write(testData{Name: "test"}, func() { textCalled = true }); err != nil {
			t.Errorf("Write() error = %v", err)
		}
		if !textCalled {
			t.Error("Write() did not call textFunc when format is text")
		}
		if buf.Len() != 0 {
			t.Error("Write() wrote JSON output when format is text")
		}
	})
}

func TestOutputWriter_IsJSON(t *testing.T) {
	if !NewOutputWriter(OutputFormatJSON).IsJSON() {
		t.Error("expected IsJSON() true for json format")
	}
	if NewOutputWriter(OutputFormatText).IsJSON() {
		t.Error("expected IsJSON() false for text format")
	}
}
