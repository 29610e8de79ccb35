package ingest

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSVNames_ByHeaderLabel(t *testing.T) {
	input := "id,employer_name,city\n1,Home Depot,Atlanta\n2,Walmart,Bentonville\n"
	names, err := ReadCSVNames(context.Background(), strings.NewReader(input), CSVOptions{
		HasHeader:  true,
		NameHeader: "employer_name",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Home Depot", "Walmart"}, names)
}

func TestReadCSVNames_ByColumnIndex(t *testing.T) {
	input := "1,Home Depot\n2,Walmart\n"
	names, err := ReadCSVNames(context.Background(), strings.NewReader(input), CSVOptions{
		NameColumn: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Home Depot", "Walmart"}, names)
}

func TestReadCSVNames_DropsBlanksAndTrims(t *testing.T) {
	input := "name\n  Home Depot  \n\"\"\n   \nWalmart\n"
	names, err := ReadCSVNames(context.Background(), strings.NewReader(input), CSVOptions{
		HasHeader:  true,
		NameHeader: "name",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Home Depot", "Walmart"}, names)
}

func TestReadCSVNames_HeaderNotFound(t *testing.T) {
	input := "id,name\n1,Home Depot\n"
	_, err := ReadCSVNames(context.Background(), strings.NewReader(input), CSVOptions{
		HasHeader:  true,
		NameHeader: "employer",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `header "employer" not found`)
}

func TestReadCSVNames_ShortRowsSkipped(t *testing.T) {
	input := "1,Home Depot\n2\n3,Walmart\n"
	names, err := ReadCSVNames(context.Background(), strings.NewReader(input), CSVOptions{
		NameColumn: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Home Depot", "Walmart"}, names)
}

func TestReadCSVNames_CustomDelimiter(t *testing.T) {
	input := "1|Home Depot\n2|Walmart\n"
	names, err := ReadCSVNames(context.Background(), strings.NewReader(input), CSVOptions{
		Delimiter:  '|',
		NameColumn: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Home Depot", "Walmart"}, names)
}

func TestStreamCSV_SendsAllRows(t *testing.T) {
	input := "a,b\nc,d\n"
	rowCh, errCh := StreamCSV(context.Background(), strings.NewReader(input), CSVOptions{})

	var rows [][]string
	for row := range rowCh {
		rows = append(rows, row)
	}
	require.NoError(t, <-errCh)
	assert.Equal(t, [][]string{{"a", "b"}, {"c", "d"}}, rows)
}
