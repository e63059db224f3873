package excel

import "testing"

func TestRead_CSV(t *testing.T) {
	data := []byte("name,age,city\nAna,34,Lisbon\nBruno,28,Porto\n\n")
	sheet, err := Read("people.csv", data)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(sheet.Headers) != 3 || sheet.Headers[0] != "name" {
		t.Errorf("headers wrong: %v", sheet.Headers)
	}
	if len(sheet.Rows) != 2 {
		t.Errorf("blank rows should be dropped, got %d rows", len(sheet.Rows))
	}
	if sheet.Rows[1][2] != "Porto" {
		t.Errorf("cell wrong: %v", sheet.Rows[1])
	}
}

func TestRead_CSVRaggedRows(t *testing.T) {
	data := []byte("a,b,c\n1,2\n4,5,6,7\n")
	sheet, err := Read("ragged.csv", data)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(sheet.Rows[0]) != 3 || sheet.Rows[0][2] != "" {
		t.Errorf("short rows should be padded: %v", sheet.Rows[0])
	}
	if len(sheet.Rows[1]) != 3 {
		t.Errorf("long rows should be truncated to the header width: %v", sheet.Rows[1])
	}
}

func TestRead_EmptyHeaderNames(t *testing.T) {
	data := []byte("a,,c\n1,2,3\n")
	sheet, err := Read("x.csv", data)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if sheet.Headers[1] != "column_2" {
		t.Errorf("blank header should get a positional name, got %q", sheet.Headers[1])
	}
}

func TestRead_UnsupportedExtension(t *testing.T) {
	if _, err := Read("data.parquet", []byte("x")); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestRead_NoDataRows(t *testing.T) {
	if _, err := Read("x.csv", []byte("a,b,c\n")); err == nil {
		t.Error("expected error for header-only file")
	}
}
