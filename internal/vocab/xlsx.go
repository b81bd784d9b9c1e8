package vocab

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadXLSX loads a ranked word list from the first sheet of an Excel
// workbook. Expected columns: A word, B rank, C definition. A header row
// is detected by a non-numeric rank cell and skipped.
//
// The returned words always form a dense rank sequence 1..N; anything
// else is a malformed inventory and reported row by row.
func ReadXLSX(path string) ([]Word, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}

	var (
		words    []Word
		problems []string
		seenText = make(map[string]int)
		seenRank = make(map[int]int)
	)
	for i, row := range rows {
		rowNum := i + 1

		text := cell(row, 0)
		rankCell := cell(row, 1)
		definition := cell(row, 2)

		if text == "" && rankCell == "" && definition == "" {
			continue
		}

		rank, err := strconv.Atoi(rankCell)
		if err != nil {
			if i == 0 {
				// Header row.
				continue
			}
			problems = append(problems, fmt.Sprintf("row %d: rank %q is not a number", rowNum, rankCell))
			continue
		}

		switch {
		case text == "":
			problems = append(problems, fmt.Sprintf("row %d: empty word", rowNum))
		case definition == "":
			problems = append(problems, fmt.Sprintf("row %d: word %q has no definition", rowNum, text))
		case rank < 1:
			problems = append(problems, fmt.Sprintf("row %d: rank %d must be positive", rowNum, rank))
		case seenText[text] != 0:
			problems = append(problems, fmt.Sprintf("row %d: word %q already defined at row %d", rowNum, text, seenText[text]))
		case seenRank[rank] != 0:
			problems = append(problems, fmt.Sprintf("row %d: rank %d already used at row %d", rowNum, rank, seenRank[rank]))
		default:
			seenText[text] = rowNum
			seenRank[rank] = rowNum
			words = append(words, Word{Text: text, Rank: rank, Definition: definition})
		}
	}

	if len(problems) == 0 && len(words) == 0 {
		problems = append(problems, "no word rows found")
	}
	if len(problems) == 0 {
		for rank := 1; rank <= len(words); rank++ {
			if seenRank[rank] == 0 {
				problems = append(problems, fmt.Sprintf("rank %d missing: ranks must run 1..%d without gaps", rank, len(words)))
			}
		}
	}
	if len(problems) > 0 {
		return nil, fmt.Errorf("invalid word list %s: %s", path, strings.Join(problems, "; "))
	}
	return words, nil
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
