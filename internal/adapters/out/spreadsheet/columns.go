package spreadsheet

import "strings"

// columnAliases lists accepted header spellings, compared lower-cased without spaces.
var columnAliases = map[string][]string{
	"order":   {"ordername", "ordernumber", "order", "commande"},
	"date":    {"orderdate", "date", "createdat"},
	"name":    {"customername", "name", "customer", "client"},
	"phone":   {"customerphone", "phone", "telephone", "tel"},
	"address": {"address", "customeraddress", "adresse"},
	"city":    {"city", "ville", "wilaya"},
	"cod":     {"codtotal", "cod", "total", "amount"},
}

// resolution order; earlier columns claim their header first.
var columnOrder = []string{"order", "date", "phone", "name", "address", "city", "cod"}

type columns map[string]int

// detectColumns maps column kinds to header indexes. An exact header match
// wins over a header that merely contains an alias. A header is used once.
func detectColumns(header []string) columns {
	norm := make([]string, len(header))
	for i, h := range header {
		norm[i] = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(h)), " ", "")
	}

	found := make(columns)
	used := make(map[int]bool)
	claim := func(kind string, match func(h, alias string) bool) {
		if _, ok := found[kind]; ok {
			return
		}
		for _, alias := range columnAliases[kind] {
			for i, h := range norm {
				if !used[i] && h != "" && match(h, alias) {
					found[kind] = i
					used[i] = true
					return
				}
			}
		}
	}

	for _, kind := range columnOrder {
		claim(kind, func(h, alias string) bool { return h == alias })
	}
	for _, kind := range columnOrder {
		claim(kind, strings.Contains)
	}
	return found
}

// cell returns the trimmed value of kind in row, or "".
func (c columns) cell(row []string, kind string) string {
	idx, ok := c[kind]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func sameOrder(a, b string) bool {
	return strings.TrimPrefix(strings.TrimSpace(a), "#") == strings.TrimPrefix(strings.TrimSpace(b), "#")
}
