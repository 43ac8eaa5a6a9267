package service

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/dujiao-next/pricedata/internal/constants"
	"github.com/dujiao-next/pricedata/internal/dataset"
	"github.com/dujiao-next/pricedata/internal/logger"
	"github.com/dujiao-next/pricedata/internal/models"

	"github.com/shopspring/decimal"
)

// ValidationOptions 校验参数
type ValidationOptions struct {
	MinRows   int
	MaxRank   int
	FailFast  bool
	Tolerance float64
}

// ValidationSummary 通过校验后输出的概要
type ValidationSummary struct {
	Retailers []string
	Brands    []string
	Weeks     int
	FirstWeek string
	LastWeek  string
}

// ValidationReport 校验结果
type ValidationReport struct {
	Rows       int
	Columns    int
	Violations []error
	Summary    ValidationSummary
}

// Passed 是否无违规
func (r *ValidationReport) Passed() bool {
	return len(r.Violations) == 0
}

// Err 合并全部违规，无违规返回 nil
func (r *ValidationReport) Err() error {
	return errors.Join(r.Violations...)
}

// ValidationService 数据集一致性校验
type ValidationService struct {
	opts ValidationOptions
}

// NewValidationService 创建校验服务
func NewValidationService(opts ValidationOptions) *ValidationService {
	if opts.MaxRank <= 0 {
		opts.MaxRank = 10
	}
	if opts.Tolerance < 0 {
		opts.Tolerance = 0
	}
	return &ValidationService{opts: opts}
}

type validationCheck struct {
	name string
	run  func(t *dataset.RawTable) []error
}

// Validate 依次执行各项检查；FailFast 时在第一项失败后停止
// 缺列时后续检查无从进行，直接返回
func (s *ValidationService) Validate(t *dataset.RawTable) *ValidationReport {
	report := &ValidationReport{Rows: t.Len(), Columns: len(t.Header)}

	if errs := s.checkSchema(t); len(errs) > 0 {
		report.Violations = errs
		return report
	}

	checks := []validationCheck{
		{name: "enumeration", run: s.checkEnumerations},
		{name: "format", run: s.checkFormats},
		{name: "non_negative", run: s.checkNonNegative},
		{name: "promo", run: s.checkPromoConsistency},
		{name: "derivation", run: s.checkDerivations},
		{name: "rank", run: s.checkRanks},
		{name: "volume", run: s.checkVolume},
	}
	for _, c := range checks {
		errs := c.run(t)
		if len(errs) == 0 {
			continue
		}
		logger.Debugw("validation_check_failed", "check", c.name, "violations", len(errs))
		if s.opts.FailFast {
			report.Violations = append(report.Violations, errs[0])
			return report
		}
		report.Violations = append(report.Violations, errs...)
	}
	report.Summary = summarize(t)
	return report
}

func (s *ValidationService) checkSchema(t *dataset.RawTable) []error {
	missing := t.MissingColumns(constants.DatasetColumns)
	if len(missing) == 0 {
		return nil
	}
	return []error{fmt.Errorf("%w: missing required columns: [%s]", ErrSchemaIncomplete, strings.Join(missing, ", "))}
}

func (s *ValidationService) checkEnumerations(t *dataset.RawTable) []error {
	var errs []error
	enums := []struct {
		column    string
		allowed   []string
		skipEmpty bool
	}{
		{constants.ColRetailer, constants.Retailers, false},
		{constants.ColBrand, constants.Brands, false},
		{constants.ColAvailabilityStatus, constants.Availabilities, true},
		{constants.ColCondition, constants.Conditions, true},
	}
	for _, e := range enums {
		if bad := outsideSet(t, e.column, e.allowed, e.skipEmpty); len(bad) > 0 {
			errs = append(errs, fmt.Errorf("%w: %s out of {%s}: [%s]",
				ErrEnumViolation, e.column, strings.Join(e.allowed, ","), strings.Join(bad, ", ")))
		}
	}

	currencies := distinctValues(t, constants.ColCurrency, true)
	if len(currencies) != 1 || currencies[0] != constants.CurrencyEUR {
		errs = append(errs, fmt.Errorf("%w: currency must always be %s, found [%s]",
			ErrEnumViolation, constants.CurrencyEUR, strings.Join(currencies, ", ")))
	}
	return errs
}

func (s *ValidationService) checkFormats(t *dataset.RawTable) []error {
	var errs []error

	badWeeks := 0
	for i := 0; i < t.Len(); i++ {
		if _, err := models.ParseDate(t.Cell(i, constants.ColWeekStart)); err != nil {
			badWeeks++
		}
	}
	if badWeeks > 0 {
		errs = append(errs, fmt.Errorf("%w: week_start not ISO date in %d rows", ErrFormatViolation, badWeeks))
	}

	for _, col := range []string{constants.ColPromoStart, constants.ColPromoEnd, constants.ColScrapedAt} {
		bad := 0
		for i := 0; i < t.Len(); i++ {
			if v := t.Cell(i, col); v != "" {
				if _, err := models.ParseTimestamp(v); err != nil {
					bad++
				}
			}
		}
		if bad > 0 {
			errs = append(errs, fmt.Errorf("%w: %s not ISO datetime in %d rows", ErrFormatViolation, col, bad))
		}
	}

	amountColumns := []string{
		constants.ColPrice, constants.ColPromoPrice, constants.ColInstallmentPrice,
		constants.ColPrevWeekPrice, constants.ColPriceChangeAbs, constants.ColPriceChangePct,
	}
	for _, col := range amountColumns {
		bad := 0
		for i := 0; i < t.Len(); i++ {
			v := t.Cell(i, col)
			if v == "" {
				if col == constants.ColPrice {
					bad++
				}
				continue
			}
			if _, err := decimal.NewFromString(v); err != nil {
				bad++
			}
		}
		if bad > 0 {
			errs = append(errs, fmt.Errorf("%w: %s not numeric in %d rows", ErrFormatViolation, col, bad))
		}
	}

	badBools := 0
	for i := 0; i < t.Len(); i++ {
		v := t.Cell(i, constants.ColPromoActive)
		if _, err := dataset.ParseBool(v); err != nil || v == "" {
			badBools++
		}
	}
	if badBools > 0 {
		errs = append(errs, fmt.Errorf("%w: promo_active not boolean in %d rows", ErrFormatViolation, badBools))
	}
	return errs
}

func (s *ValidationService) checkNonNegative(t *dataset.RawTable) []error {
	var errs []error
	for _, col := range []string{constants.ColPrice, constants.ColPromoPrice, constants.ColInstallmentPrice, constants.ColPrevWeekPrice} {
		bad := 0
		for i := 0; i < t.Len(); i++ {
			if d, ok := cellDecimal(t, i, col); ok && d.IsNegative() {
				bad++
			}
		}
		if bad > 0 {
			errs = append(errs, fmt.Errorf("%w: %s has negative values in %d rows", ErrNegativeAmount, col, bad))
		}
	}
	return errs
}

func (s *ValidationService) checkPromoConsistency(t *dataset.RawTable) []error {
	var errs []error
	noPrice, outside := 0, 0
	for i := 0; i < t.Len(); i++ {
		active, err := dataset.ParseBool(t.Cell(i, constants.ColPromoActive))
		if err != nil || !active {
			continue
		}
		if t.Cell(i, constants.ColPromoPrice) == "" {
			noPrice++
		}
		week, werr := models.ParseDate(t.Cell(i, constants.ColWeekStart))
		start, serr := models.ParseTimestamp(t.Cell(i, constants.ColPromoStart))
		end, eerr := models.ParseTimestamp(t.Cell(i, constants.ColPromoEnd))
		if werr != nil || serr != nil || eerr != nil || week.Before(start) || week.After(end) {
			outside++
		}
	}
	if noPrice > 0 {
		errs = append(errs, fmt.Errorf("%w: promo_active=true but promo_price is null in %d rows", ErrPromoInconsistent, noPrice))
	}
	if outside > 0 {
		errs = append(errs, fmt.Errorf("%w: promo_active=true but week_start is not in [promo_start,promo_end] in %d rows", ErrPromoInconsistent, outside))
	}
	return errs
}

// checkDerivations 按 (零售商, 品牌, 型号ID) 分区、周升序重算 prev/abs/pct 并比较
func (s *ValidationService) checkDerivations(t *dataset.RawTable) []error {
	tol := decimal.NewFromFloat(s.opts.Tolerance)
	within := func(a, b decimal.Decimal) bool {
		return a.Sub(b).Abs().LessThanOrEqual(tol)
	}

	order := make([]int, t.Len())
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		for _, col := range []string{constants.ColRetailer, constants.ColBrand, constants.ColModelID, constants.ColWeekStart} {
			x, y := t.Cell(order[a], col), t.Cell(order[b], col)
			if x != y {
				return x < y
			}
		}
		return false
	})

	badPrev, badAbs, badPct := 0, 0, 0
	for pos, i := range order {
		var expectedPrev *decimal.Decimal
		if pos > 0 && samePartition(t, order[pos-1], i) {
			if d, ok := cellDecimal(t, order[pos-1], constants.ColPrice); ok {
				expectedPrev = &d
			}
		}

		recordedPrev, hasPrev := cellDecimal(t, i, constants.ColPrevWeekPrice)
		switch {
		case expectedPrev == nil && hasPrev, expectedPrev != nil && !hasPrev:
			badPrev++
		case expectedPrev != nil && !within(*expectedPrev, recordedPrev):
			badPrev++
		}
		if !hasPrev {
			continue
		}

		price, ok := cellDecimal(t, i, constants.ColPrice)
		if !ok || expectedPrev == nil {
			badAbs++
			continue
		}
		expectedAbs := price.Sub(*expectedPrev).Round(2)
		if abs, ok := cellDecimal(t, i, constants.ColPriceChangeAbs); !ok || !within(abs, expectedAbs) {
			badAbs++
		}
		if recordedPrev.IsZero() || expectedPrev.IsZero() {
			continue
		}
		expectedPct := expectedAbs.Mul(hundred).Div(*expectedPrev).Round(2)
		if pct, ok := cellDecimal(t, i, constants.ColPriceChangePct); !ok || !within(pct, expectedPct) {
			badPct++
		}
	}

	var errs []error
	if badPrev > 0 {
		errs = append(errs, fmt.Errorf("%w: prev_week_price incorrectly calculated in %d rows", ErrDerivationMismatch, badPrev))
	}
	if badAbs > 0 {
		errs = append(errs, fmt.Errorf("%w: price_change_abs incorrect in %d rows", ErrDerivationMismatch, badAbs))
	}
	if badPct > 0 {
		errs = append(errs, fmt.Errorf("%w: price_change_pct incorrect in %d rows", ErrDerivationMismatch, badPct))
	}
	return errs
}

func (s *ValidationService) checkRanks(t *dataset.RawTable) []error {
	var errs []error
	outOfRange, duplicates := 0, 0
	seen := make(map[models.WeekKey]map[int]struct{})
	for i := 0; i < t.Len(); i++ {
		rank, err := strconv.Atoi(t.Cell(i, constants.ColRankWithinBrand))
		if err != nil || rank < 1 || rank > s.opts.MaxRank {
			outOfRange++
		}
		if err != nil {
			continue
		}
		key := models.WeekKey{
			Retailer:  t.Cell(i, constants.ColRetailer),
			Brand:     t.Cell(i, constants.ColBrand),
			WeekStart: t.Cell(i, constants.ColWeekStart),
		}
		if seen[key] == nil {
			seen[key] = make(map[int]struct{})
		}
		if _, dup := seen[key][rank]; dup {
			duplicates++
			continue
		}
		seen[key][rank] = struct{}{}
	}
	if outOfRange > 0 {
		errs = append(errs, fmt.Errorf("%w: rank_within_brand out of 1..%d in %d rows", ErrRankViolation, s.opts.MaxRank, outOfRange))
	}
	if duplicates > 0 {
		errs = append(errs, fmt.Errorf("%w: rank_within_brand duplicated within some (retailer,brand,week_start): %d duplicates", ErrRankViolation, duplicates))
	}
	return errs
}

func (s *ValidationService) checkVolume(t *dataset.RawTable) []error {
	if t.Len() >= s.opts.MinRows {
		return nil
	}
	return []error{fmt.Errorf("%w: expected at least %d rows; found %d", ErrVolumeTooLow, s.opts.MinRows, t.Len())}
}

func summarize(t *dataset.RawTable) ValidationSummary {
	weeks := distinctValues(t, constants.ColWeekStart, true)
	summary := ValidationSummary{
		Retailers: distinctValues(t, constants.ColRetailer, true),
		Brands:    distinctValues(t, constants.ColBrand, true),
		Weeks:     len(weeks),
	}
	if len(weeks) > 0 {
		summary.FirstWeek = weeks[0]
		summary.LastWeek = weeks[len(weeks)-1]
	}
	return summary
}

func samePartition(t *dataset.RawTable, a, b int) bool {
	for _, col := range []string{constants.ColRetailer, constants.ColBrand, constants.ColModelID} {
		if t.Cell(a, col) != t.Cell(b, col) {
			return false
		}
	}
	return true
}

func cellDecimal(t *dataset.RawTable, row int, column string) (decimal.Decimal, bool) {
	v := t.Cell(row, column)
	if v == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// distinctValues 列的去重值（排序）
func distinctValues(t *dataset.RawTable, column string, skipEmpty bool) []string {
	set := make(map[string]struct{})
	for i := 0; i < t.Len(); i++ {
		v := t.Cell(i, column)
		if v == "" && skipEmpty {
			continue
		}
		set[v] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func outsideSet(t *dataset.RawTable, column string, allowed []string, skipEmpty bool) []string {
	ok := make(map[string]struct{}, len(allowed))
	for _, a := range allowed {
		ok[a] = struct{}{}
	}
	bad := make([]string, 0)
	for _, v := range distinctValues(t, column, skipEmpty) {
		if _, found := ok[v]; !found {
			bad = append(bad, strconv.Quote(v))
		}
	}
	return bad
}
