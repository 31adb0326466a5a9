// Package locale holds the fixed localization bundles for document
// generation. Bundles are process-wide constant data: display strings,
// enumerated vocabularies, and formatting templates for the three
// supported language tags. Nothing here is mutated at runtime.
package locale

import (
	"strconv"
	"strings"

	"github.com/previewtools/tableview/pkg/errors"
)

// Tag identifies a supported language.
type Tag string

const (
	English           Tag = "en"
	SimplifiedChinese Tag = "zh-CN"
	Japanese          Tag = "ja"
)

// Bundle is the read-only set of display strings and vocabularies for one
// language. Salary figures are amounts in the local currency's major unit;
// FormatSalary turns them into the display string used in records.
type Bundle struct {
	Tag Tag

	// Title is the document title printed on the first page.
	Title string

	// Headers are the five table column headers in display order:
	// id, name, department, position, salary.
	Headers []string

	// Departments and Positions are the vocabularies records draw from.
	Departments []string
	Positions   []string

	// Names is the pool of synthetic employee names.
	Names []string

	// CurrencySymbol prefixes formatted salaries ("$" or "¥").
	CurrencySymbol string

	// SalaryMin and SalaryMax bound the randomized salary amount.
	SalaryMin, SalaryMax int

	// FooterTemplate is the page footer with {page} and {total} placeholders.
	FooterTemplate string
}

var bundles = map[Tag]*Bundle{
	English: {
		Tag:     English,
		Title:   "Employee Report",
		Headers: []string{"ID", "Name", "Department", "Position", "Salary"},
		Departments: []string{
			"Engineering", "Marketing", "Sales", "Finance", "Human Resources",
		},
		Positions: []string{
			"Manager", "Senior Engineer", "Engineer", "Analyst", "Coordinator",
		},
		Names: []string{
			"James Miller", "Mary Johnson", "Robert Smith", "Patricia Brown",
			"Michael Davis", "Linda Wilson", "William Moore", "Elizabeth Taylor",
			"David Anderson", "Jennifer Thomas", "Richard Jackson", "Susan White",
		},
		CurrencySymbol: "$",
		SalaryMin:      45000,
		SalaryMax:      160000,
		FooterTemplate: "Page {page} of {total}",
	},
	SimplifiedChinese: {
		Tag:     SimplifiedChinese,
		Title:   "员工报表",
		Headers: []string{"编号", "姓名", "部门", "职位", "薪资"},
		Departments: []string{
			"工程部", "市场部", "销售部", "财务部", "人力资源部",
		},
		Positions: []string{
			"经理", "高级工程师", "工程师", "分析师", "专员",
		},
		Names: []string{
			"王伟", "李娜", "张敏", "刘洋", "陈静",
			"杨勇", "赵丽", "黄强", "周杰", "吴霞",
			"徐磊", "孙芳",
		},
		CurrencySymbol: "¥",
		SalaryMin:      120000,
		SalaryMax:      600000,
		FooterTemplate: "第 {page} 页，共 {total} 页",
	},
	Japanese: {
		Tag:     Japanese,
		Title:   "従業員レポート",
		Headers: []string{"番号", "氏名", "部署", "役職", "給与"},
		Departments: []string{
			"技術部", "マーケティング部", "営業部", "経理部", "人事部",
		},
		Positions: []string{
			"部長", "シニアエンジニア", "エンジニア", "アナリスト", "担当者",
		},
		Names: []string{
			"佐藤健", "鈴木美咲", "高橋翔太", "田中陽子", "伊藤大輔",
			"渡辺さくら", "山本拓也", "中村愛", "小林誠", "加藤優子",
			"吉田亮", "山田花子",
		},
		CurrencySymbol: "¥",
		SalaryMin:      3500000,
		SalaryMax:      12000000,
		FooterTemplate: "{page} / {total} ページ",
	},
}

// supported fixes the selector order: the three options the UI exposes.
var supported = []Tag{English, SimplifiedChinese, Japanese}

// Supported returns the supported language tags in display order.
func Supported() []Tag {
	out := make([]Tag, len(supported))
	copy(out, supported)
	return out
}

// IsSupported reports whether tag is one of the supported set.
func IsSupported(tag Tag) bool {
	_, ok := bundles[tag]
	return ok
}

// Lookup returns the bundle for tag, or a LANGUAGE_UNSUPPORTED error.
func Lookup(tag Tag) (*Bundle, error) {
	b, ok := bundles[tag]
	if !ok {
		return nil, errors.Localef(errors.ErrLanguageUnsupported,
			"unsupported language tag %q", tag).
			WithContext("tag", string(tag)).
			WithSuggestion("use one of: en, zh-CN, ja")
	}
	return b, nil
}

// FormatSalary renders an amount as the localized currency string,
// e.g. "$87,300" or "¥456,000".
func (b *Bundle) FormatSalary(amount int) string {
	return b.CurrencySymbol + groupThousands(amount)
}

// FormatFooter substitutes the placeholders in the footer template.
// The arguments are strings so callers can pass a page-total alias that is
// resolved later by the document writer.
func (b *Bundle) FormatFooter(page, total string) string {
	out := strings.Replace(b.FooterTemplate, "{page}", page, 1)
	return strings.Replace(out, "{total}", total, 1)
}

// groupThousands inserts comma separators into a non-negative integer.
func groupThousands(n int) string {
	s := strconv.Itoa(n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
