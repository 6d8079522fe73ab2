package reference

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/yanqian/bloom-backend/internal/domain/chatbot"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoadCSVMatchesHeadersByName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ref.csv")
	body := "Country,Species,Bloom Start,Bloom-End,Notes\n" +
		"Japan,Cherry Blossom,March,April,Peak in early April.\n" +
		"India,Hibiscus,June,September\n" +
		",,,,\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	rows, err := NewFileSource(path, discardLogger()).Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, []chatbot.ReferenceRow{
		{Species: "Cherry Blossom", Country: "Japan", BloomStart: "March", BloomEnd: "April", Notes: "Peak in early April."},
		{Species: "Hibiscus", Country: "India", BloomStart: "June", BloomEnd: "September"},
	}, rows)
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	rows, err := NewFileSource(filepath.Join(t.TempDir(), "absent.csv"), discardLogger()).Load(context.Background())
	require.NoError(t, err)
	require.Empty(t, rows)
	require.NotNil(t, rows)
}

func TestLoadXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ref.xlsx")
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"species", "country", "bloom_start", "bloom_end", "notes"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"Jacaranda", "South Africa", "September", "November", "Pretoria streets turn purple."}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	rows, err := NewFileSource(path, discardLogger()).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "Jacaranda", rows[0].Species)
	require.Equal(t, "South Africa", rows[0].Country)
	require.Equal(t, "Pretoria streets turn purple.", rows[0].Notes)
}

func TestToRowsHeaderOnly(t *testing.T) {
	require.Empty(t, toRows([][]string{{"species", "country"}}))
	require.Empty(t, toRows(nil))
}
