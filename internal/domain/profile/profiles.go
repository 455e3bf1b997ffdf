package profile

import "regexp"

// Amount token patterns. Argentine statements print "1.234,56"; HSBC and
// MercadoPago exports use "1,234.56".
const (
	arAmount  = `\d{1,3}(?:\.\d{3})*,\d{2}`
	arSigned  = `-?` + arAmount
	arTrail   = arAmount + `-?`
	arParen   = `(?:\(` + arAmount + `\)|` + arAmount + `)`
	usAmount  = `\d{1,3}(?:,\d{3})*\.\d{2}`
	usSigned  = `-?` + usAmount
	arDateYY  = `\d{2}/\d{2}/\d{2}`
	arDate    = `\d{2}/\d{2}/\d{4}`
	isoDate   = `\d{4}-\d{2}-\d{2}`
	dayMonthD = `\d{2}-[A-Z]{3}`
)

// Continuation lines are indented or dash-prefixed description overflow.
var contPattern = regexp.MustCompile(`^(?:\s{2,}|-\s)(?P<desc>\S.*)$`)

var pageNoise = regexp.MustCompile(`(?i)^\s*(?:p[aá]gina|hoja)\s+\d+`)

// Defaults returns the supported bank profiles in presentation order. The
// pattern sets were authored from sample statements of each bank; rule order
// matters (first match wins), so totals rows are always declared before the
// generic transaction pattern.
func Defaults() []*BankProfile {
	return []*BankProfile{
		bbvaFrances(),
		santanderRio(),
		galicia(),
		icbc(),
		icbcFormato2(),
		icbcFormato3(),
		macro(),
		nacion(),
		provinciaFormato1(),
		supervielle(),
		credicoop(),
		mercadoPago(),
		hsbc(),
	}
}

func bbvaFrances() *BankProfile {
	return &BankProfile{
		ID:          "bbva-frances",
		DisplayName: "BBVA Frances",
		Rules: []LineRule{
			{LineTotals, regexp.MustCompile(`(?i)^\s*SALDO\s+FINAL\b`)},
			{LineHeader, regexp.MustCompile(`(?i)^\s*FECHA\s+CONCEPTO\s+IMPORTE\s+SALDO\s*$`)},
			{LineNoise, regexp.MustCompile(`(?i)^\s*BBVA\b`)},
			{LineNoise, pageNoise},
			{LineTransaction, regexp.MustCompile(`^(?P<date>` + arDateYY + `)\s+(?P<desc>.+?)\s+(?P<amount>` + arTrail + `)\s+(?P<balance>` + arTrail + `)\s*$`)},
			{LineContinuation, contPattern},
		},
		Numbers:          NumberFormat{DecimalSep: ',', ThousandsSep: '.', Negative: NegTrailingMinus},
		Amounts:          AmountSingle,
		DateLayout:       "02/01/06",
		HasBalanceColumn: true,
		Currency:         "ARS",
		HolderPattern:    regexp.MustCompile(`(?i)^\s*TITULAR:?\s+(.+?)\s*$`),
		PeriodPattern:    regexp.MustCompile(`(?i)^\s*PER[IÍ]ODO:?\s+(?P<from>` + arDate + `)\s+AL\s+(?P<to>` + arDate + `)`),
		OpeningPattern:   regexp.MustCompile(`(?i)^\s*SALDO\s+ANTERIOR\s+(?P<amount>` + arTrail + `)\s*$`),
		ClosingPattern:   regexp.MustCompile(`(?i)^\s*SALDO\s+FINAL\s+(?P<amount>` + arTrail + `)\s*$`),
	}
}

func santanderRio() *BankProfile {
	return &BankProfile{
		ID:          "santander-rio",
		DisplayName: "Santander Rio",
		Rules: []LineRule{
			{LineTotals, regexp.MustCompile(`(?i)^\s*Saldo\s+final\b`)},
			{LineHeader, regexp.MustCompile(`(?i)^\s*Fecha\s+Descripci[oó]n\s+D[eé]bito\s+Cr[eé]dito\s+Saldo\s*$`)},
			{LineNoise, regexp.MustCompile(`(?i)^\s*Santander\s+R[ií]o\b`)},
			{LineNoise, pageNoise},
			{LineTransaction, regexp.MustCompile(`^(?P<date>` + arDate + `)\s+(?P<desc>.+?)\s+(?P<debit>` + arAmount + `)\s+(?P<credit>` + arAmount + `)\s+(?P<balance>` + arSigned + `)\s*$`)},
			{LineContinuation, contPattern},
		},
		Numbers:          NumberFormat{DecimalSep: ',', ThousandsSep: '.', Negative: NegLeadingMinus},
		Amounts:          AmountSplit,
		DateLayout:       "02/01/2006",
		HasBalanceColumn: true,
		Currency:         "ARS",
		HolderPattern:    regexp.MustCompile(`(?i)^\s*Titular:?\s+(.+?)\s*$`),
		PeriodPattern:    regexp.MustCompile(`(?i)^\s*Resumen\s+del\s+(?P<from>` + arDate + `)\s+al\s+(?P<to>` + arDate + `)`),
		OpeningPattern:   regexp.MustCompile(`(?i)^\s*Saldo\s+inicial:?\s+(?P<amount>` + arSigned + `)\s*$`),
		ClosingPattern:   regexp.MustCompile(`(?i)^\s*Saldo\s+final:?\s+(?P<amount>` + arSigned + `)\s*$`),
	}
}

func galicia() *BankProfile {
	return &BankProfile{
		ID:          "galicia",
		DisplayName: "Galicia",
		Rules: []LineRule{
			{LineTotals, regexp.MustCompile(`(?i)^\s*SALDO\s+AL\s+` + arDateYY)},
			{LineHeader, regexp.MustCompile(`(?i)^\s*FECHA\s+DETALLE\s+DEBITOS?\s+CREDITOS?\s+SALDO\s*$`)},
			{LineNoise, regexp.MustCompile(`(?i)^\s*Banco\s+Galicia\b`)},
			{LineNoise, pageNoise},
			{LineTransaction, regexp.MustCompile(`^(?P<date>` + arDateYY + `)\s+(?P<desc>.+?)\s+(?P<debit>` + arAmount + `)\s+(?P<credit>` + arAmount + `)\s+(?P<balance>` + arSigned + `)\s*$`)},
			{LineContinuation, contPattern},
		},
		Numbers:          NumberFormat{DecimalSep: ',', ThousandsSep: '.', Negative: NegLeadingMinus},
		Amounts:          AmountSplit,
		DateLayout:       "02/01/06",
		HasBalanceColumn: true,
		Currency:         "ARS",
		OpeningPattern:   regexp.MustCompile(`(?i)^\s*SALDO\s+INICIAL\s+(?P<amount>` + arSigned + `)\s*$`),
		ClosingPattern:   regexp.MustCompile(`(?i)^\s*SALDO\s+AL\s+` + arDateYY + `\s+(?P<amount>` + arSigned + `)\s*$`),
	}
}

func icbc() *BankProfile {
	return &BankProfile{
		ID:          "icbc",
		DisplayName: "ICBC",
		Rules: []LineRule{
			{LineTotals, regexp.MustCompile(`(?i)^\s*SALDO\s+ACTUAL\b`)},
			{LineHeader, regexp.MustCompile(`(?i)^\s*FECHA\s+CONCEPTO\s+IMPORTE\s+SALDO\s*$`)},
			{LineNoise, regexp.MustCompile(`(?i)^\s*ICBC\b`)},
			{LineNoise, pageNoise},
			{LineTransaction, regexp.MustCompile(`^(?P<date>` + arDate + `)\s+(?P<desc>.+?)\s+(?P<amount>` + arSigned + `)\s+(?P<balance>` + arSigned + `)\s*$`)},
			{LineContinuation, contPattern},
		},
		Numbers:          NumberFormat{DecimalSep: ',', ThousandsSep: '.', Negative: NegLeadingMinus},
		Amounts:          AmountSingle,
		DateLayout:       "02/01/2006",
		HasBalanceColumn: true,
		Currency:         "ARS",
		OpeningPattern:   regexp.MustCompile(`(?i)^\s*SALDO\s+ANTERIOR\s+(?P<amount>` + arSigned + `)\s*$`),
		ClosingPattern:   regexp.MustCompile(`(?i)^\s*SALDO\s+ACTUAL\s+(?P<amount>` + arSigned + `)\s*$`),
	}
}

// ICBC issues several statement generations. Formato 2 prints split
// debit/credit columns; formato 3 drops the running balance entirely.
func icbcFormato2() *BankProfile {
	return &BankProfile{
		ID:          "icbc-formato-2",
		DisplayName: "ICBC Formato 2",
		Rules: []LineRule{
			{LineTotals, regexp.MustCompile(`(?i)^\s*SALDO\s+ACTUAL\b`)},
			{LineHeader, regexp.MustCompile(`(?i)^\s*FECHA\s+DESCRIPCI[OÓ]N\s+D[EÉ]BITO\s+CR[EÉ]DITO\s+SALDO\s*$`)},
			{LineNoise, regexp.MustCompile(`(?i)^\s*ICBC\b`)},
			{LineNoise, pageNoise},
			{LineTransaction, regexp.MustCompile(`^(?P<date>` + arDate + `)\s+(?P<desc>.+?)\s+(?P<debit>` + arAmount + `)\s+(?P<credit>` + arAmount + `)\s+(?P<balance>` + arSigned + `)\s*$`)},
			{LineContinuation, contPattern},
		},
		Numbers:          NumberFormat{DecimalSep: ',', ThousandsSep: '.', Negative: NegLeadingMinus},
		Amounts:          AmountSplit,
		DateLayout:       "02/01/2006",
		HasBalanceColumn: true,
		Currency:         "ARS",
		OpeningPattern:   regexp.MustCompile(`(?i)^\s*SALDO\s+ANTERIOR\s+(?P<amount>` + arSigned + `)\s*$`),
		ClosingPattern:   regexp.MustCompile(`(?i)^\s*SALDO\s+ACTUAL\s+(?P<amount>` + arSigned + `)\s*$`),
	}
}

func icbcFormato3() *BankProfile {
	return &BankProfile{
		ID:          "icbc-formato-3",
		DisplayName: "ICBC Formato 3",
		Rules: []LineRule{
			{LineTotals, regexp.MustCompile(`(?i)^\s*SALDO\s+ACTUAL\b`)},
			{LineHeader, regexp.MustCompile(`(?i)^\s*FECHA\s+CONCEPTO\s+IMPORTE\s*$`)},
			{LineNoise, regexp.MustCompile(`(?i)^\s*ICBC\b`)},
			{LineNoise, pageNoise},
			{LineTransaction, regexp.MustCompile(`^(?P<date>` + arDateYY + `)\s+(?P<desc>.+?)\s+(?P<amount>` + arSigned + `)\s*$`)},
			{LineContinuation, contPattern},
		},
		Numbers:          NumberFormat{DecimalSep: ',', ThousandsSep: '.', Negative: NegLeadingMinus},
		Amounts:          AmountSingle,
		DateLayout:       "02/01/06",
		HasBalanceColumn: false,
		Currency:         "ARS",
		OpeningPattern:   regexp.MustCompile(`(?i)^\s*SALDO\s+ANTERIOR\s+(?P<amount>` + arSigned + `)\s*$`),
		ClosingPattern:   regexp.MustCompile(`(?i)^\s*SALDO\s+ACTUAL\s+(?P<amount>` + arSigned + `)\s*$`),
	}
}

func macro() *BankProfile {
	return &BankProfile{
		ID:          "macro",
		DisplayName: "Macro",
		Rules: []LineRule{
			{LineTotals, regexp.MustCompile(`(?i)^\s*SALDO\s+FINAL\b`)},
			{LineHeader, regexp.MustCompile(`(?i)^\s*FECHA\s+DESCRIPCI[OÓ]N\s+D[EÉ]BITO\s+CR[EÉ]DITO\s*$`)},
			{LineNoise, regexp.MustCompile(`(?i)^\s*Banco\s+Macro\b`)},
			{LineNoise, pageNoise},
			{LineTransaction, regexp.MustCompile(`^(?P<date>` + arDate + `)\s+(?P<desc>.+?)\s+(?P<debit>` + arAmount + `)\s+(?P<credit>` + arAmount + `)\s*$`)},
			{LineContinuation, contPattern},
		},
		Numbers:          NumberFormat{DecimalSep: ',', ThousandsSep: '.', Negative: NegLeadingMinus},
		Amounts:          AmountSplit,
		DateLayout:       "02/01/2006",
		HasBalanceColumn: false,
		Currency:         "ARS",
		OpeningPattern:   regexp.MustCompile(`(?i)^\s*SALDO\s+ANTERIOR:?\s+(?P<amount>` + arSigned + `)\s*$`),
		ClosingPattern:   regexp.MustCompile(`(?i)^\s*SALDO\s+FINAL:?\s+(?P<amount>` + arSigned + `)\s*$`),
	}
}

func nacion() *BankProfile {
	return &BankProfile{
		ID:          "nacion",
		DisplayName: "Nacion",
		Rules: []LineRule{
			{LineTotals, regexp.MustCompile(`(?i)^\s*SALDO\s+FINAL\b`)},
			{LineHeader, regexp.MustCompile(`(?i)^\s*FECHA\s+MOVIMIENTO\s+DEBITO\s+CREDITO\s+SALDO\s*$`)},
			{LineNoise, regexp.MustCompile(`(?i)^\s*Banco\s+de\s+la\s+Naci[oó]n\b`)},
			{LineNoise, pageNoise},
			{LineTransaction, regexp.MustCompile(`^(?P<date>` + arDate + `)\s+(?P<desc>.+?)\s+(?P<debit>` + arAmount + `)\s+(?P<credit>` + arAmount + `)\s+(?P<balance>` + arSigned + `)\s*$`)},
			{LineContinuation, contPattern},
		},
		Numbers:          NumberFormat{DecimalSep: ',', ThousandsSep: '.', Negative: NegLeadingMinus},
		Amounts:          AmountSplit,
		DateLayout:       "02/01/2006",
		HasBalanceColumn: true,
		Currency:         "ARS",
		OpeningPattern:   regexp.MustCompile(`(?i)^\s*SALDO\s+ANTERIOR\s+(?P<amount>` + arSigned + `)\s*$`),
		ClosingPattern:   regexp.MustCompile(`(?i)^\s*SALDO\s+FINAL\s+(?P<amount>` + arSigned + `)\s*$`),
	}
}

func provinciaFormato1() *BankProfile {
	return &BankProfile{
		ID:          "provincia-formato-1",
		DisplayName: "Provincia Formato 1",
		Rules: []LineRule{
			{LineTotals, regexp.MustCompile(`(?i)^\s*SALDO\s+FINAL\b`)},
			{LineHeader, regexp.MustCompile(`(?i)^\s*FECHA\s+CONCEPTO\s+IMPORTE\s+SALDO\s*$`)},
			{LineNoise, regexp.MustCompile(`(?i)^\s*Banco\s+Provincia\b`)},
			{LineNoise, pageNoise},
			{LineTransaction, regexp.MustCompile(`^(?P<date>` + arDateYY + `)\s+(?P<desc>.+?)\s+(?P<amount>` + arTrail + `)\s+(?P<balance>` + arTrail + `)\s*$`)},
			{LineContinuation, contPattern},
		},
		Numbers:          NumberFormat{DecimalSep: ',', ThousandsSep: '.', Negative: NegTrailingMinus},
		Amounts:          AmountSingle,
		DateLayout:       "02/01/06",
		HasBalanceColumn: true,
		Currency:         "ARS",
		OpeningPattern:   regexp.MustCompile(`(?i)^\s*SALDO\s+ANTERIOR\s+(?P<amount>` + arTrail + `)\s*$`),
		ClosingPattern:   regexp.MustCompile(`(?i)^\s*SALDO\s+FINAL\s+(?P<amount>` + arTrail + `)\s*$`),
	}
}

func supervielle() *BankProfile {
	return &BankProfile{
		ID:          "supervielle",
		DisplayName: "Supervielle",
		Rules: []LineRule{
			{LineTotals, regexp.MustCompile(`(?i)^\s*SALDO\s+CIERRE\b`)},
			{LineHeader, regexp.MustCompile(`(?i)^\s*FECHA\s+CONCEPTO\s+IMPORTE\s+SALDO\s*$`)},
			{LineNoise, regexp.MustCompile(`(?i)^\s*Supervielle\b`)},
			{LineNoise, pageNoise},
			{LineTransaction, regexp.MustCompile(`^(?P<date>` + arDateYY + `)\s+(?P<desc>.+?)\s+(?P<amount>` + arParen + `)\s+(?P<balance>` + arParen + `)\s*$`)},
			{LineContinuation, contPattern},
		},
		Numbers:          NumberFormat{DecimalSep: ',', ThousandsSep: '.', Negative: NegParentheses},
		Amounts:          AmountSingle,
		DateLayout:       "02/01/06",
		HasBalanceColumn: true,
		Currency:         "ARS",
		OpeningPattern:   regexp.MustCompile(`(?i)^\s*SALDO\s+APERTURA\s+(?P<amount>` + arParen + `)\s*$`),
		ClosingPattern:   regexp.MustCompile(`(?i)^\s*SALDO\s+CIERRE\s+(?P<amount>` + arParen + `)\s*$`),
	}
}

func credicoop() *BankProfile {
	return &BankProfile{
		ID:          "credicoop",
		DisplayName: "Credicoop",
		Rules: []LineRule{
			{LineTotals, regexp.MustCompile(`(?i)^\s*SALDO\s+FINAL\b`)},
			{LineHeader, regexp.MustCompile(`(?i)^\s*FECHA\s+CONCEPTO\s+DEBITO\s+CREDITO\s+SALDO\s*$`)},
			{LineNoise, regexp.MustCompile(`(?i)^\s*Banco\s+Credicoop\b`)},
			{LineNoise, pageNoise},
			{LineTransaction, regexp.MustCompile(`^(?P<date>` + arDate + `)\s+(?P<desc>.+?)\s+(?P<debit>` + arAmount + `)\s+(?P<credit>` + arAmount + `)\s+(?P<balance>` + arSigned + `)\s*$`)},
			{LineContinuation, contPattern},
		},
		Numbers:          NumberFormat{DecimalSep: ',', ThousandsSep: '.', Negative: NegLeadingMinus},
		Amounts:          AmountSplit,
		DateLayout:       "02/01/2006",
		HasBalanceColumn: true,
		Currency:         "ARS",
		OpeningPattern:   regexp.MustCompile(`(?i)^\s*SALDO\s+ANTERIOR\s+(?P<amount>` + arSigned + `)\s*$`),
		ClosingPattern:   regexp.MustCompile(`(?i)^\s*SALDO\s+FINAL\s+(?P<amount>` + arSigned + `)\s*$`),
	}
}

func mercadoPago() *BankProfile {
	return &BankProfile{
		ID:          "mercadopago",
		DisplayName: "MercadoPago",
		Rules: []LineRule{
			{LineTotals, regexp.MustCompile(`(?i)^\s*Saldo\s+final\b`)},
			{LineHeader, regexp.MustCompile(`(?i)^\s*Fecha\s+Detalle\s+Importe\s*$`)},
			{LineNoise, regexp.MustCompile(`(?i)^\s*Mercado\s?Pago\b`)},
			{LineNoise, pageNoise},
			{LineTransaction, regexp.MustCompile(`^(?P<date>` + isoDate + `)\s+(?P<desc>.+?)\s+(?P<amount>` + usSigned + `)\s*$`)},
			{LineContinuation, contPattern},
		},
		Numbers:          NumberFormat{DecimalSep: '.', ThousandsSep: ',', Negative: NegLeadingMinus},
		Amounts:          AmountSingle,
		DateLayout:       "2006-01-02",
		HasBalanceColumn: false,
		Currency:         "ARS",
		OpeningPattern:   regexp.MustCompile(`(?i)^\s*Saldo\s+inicial:?\s+(?P<amount>` + usSigned + `)\s*$`),
		ClosingPattern:   regexp.MustCompile(`(?i)^\s*Saldo\s+final:?\s+(?P<amount>` + usSigned + `)\s*$`),
	}
}

// hsbc statements print day-month dates ("05-ENE") without a year; the year
// comes from the "EXTRACTO DEL dd/mm/yyyy AL dd/mm/yyyy" period line.
func hsbc() *BankProfile {
	return &BankProfile{
		ID:          "hsbc",
		DisplayName: "HSBC",
		Rules: []LineRule{
			{LineTotals, regexp.MustCompile(`(?i)^\s*-?\s*SALDO\s+FINAL\b`)},
			{LineHeader, regexp.MustCompile(`(?i)^\s*FECHA\s+DESCRIPCI[OÓ]N\s+IMPORTE\s+SALDO\s*$`)},
			{LineNoise, regexp.MustCompile(`(?i)^\s*HSBC\b`)},
			{LineNoise, regexp.MustCompile(`(?i)^\s*HOJA\s+\d+\s+DE\s+\d+`)},
			{LineNoise, pageNoise},
			{LineTransaction, regexp.MustCompile(`^(?P<date>` + dayMonthD + `)\s+(?P<desc>.+?)\s+(?P<amount>` + usSigned + `)\s+(?P<balance>` + usSigned + `)\s*$`)},
			{LineContinuation, contPattern},
		},
		Numbers:          NumberFormat{DecimalSep: '.', ThousandsSep: ',', Negative: NegLeadingMinus},
		Amounts:          AmountSingle,
		DateLayout:       "02-01-2006",
		MonthNames:       spanishMonths,
		YearFromPeriod:   true,
		HasBalanceColumn: true,
		Currency:         "ARS",
		HolderPattern:    regexp.MustCompile(`^\s*(.+?)\s+SUCURSAL\s*\(\d+\)`),
		PeriodPattern:    regexp.MustCompile(`(?i)EXTRACTO\s+DEL\s+(?P<from>` + arDate + `)\s+AL\s+(?P<to>` + arDate + `)`),
		OpeningPattern:   regexp.MustCompile(`(?i)^\s*-?\s*SALDO\s+ANTERIOR\s+(?P<amount>` + usSigned + `)\s*$`),
		ClosingPattern:   regexp.MustCompile(`(?i)^\s*-?\s*SALDO\s+FINAL\s+(?P<amount>` + usSigned + `)\s*$`),
	}
}
