package views

import (
	"strconv"
	"time"
)

type navLink struct {
	Href  string
	Label string
}

// navigation is the main menu, in display order.
var navigation = []navLink{
	{"/", "Home"},
	{"/don-mario/", "Don Mario"},
	{"/chi-siamo/", "Chi siamo"},
	{"/bambui/", "Bambuí"},
	{"/foto/", "Foto"},
	{"/stampa/", "Stampa"},
	{"/contatti/", "Contatti"},
}

func navClass(current, href string) string {
	if current == href {
		return "nav-link active"
	}
	return "nav-link"
}

var italianMonths = [...]string{
	"gennaio", "febbraio", "marzo", "aprile", "maggio", "giugno",
	"luglio", "agosto", "settembre", "ottobre", "novembre", "dicembre",
}

// ItalianDate formats t as "2 marzo 2024". The zero time yields "".
func ItalianDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return strconv.Itoa(t.Day()) + " " + italianMonths[t.Month()-1] + " " + strconv.Itoa(t.Year())
}
