package utils

import (
	"bytes"
	"fmt"
	"time"

	"github.com/phpdave11/gofpdf"
)

// TicketData carries everything printed on an e-ticket.
type TicketData struct {
	BookingID    uint
	Reference    string
	Passenger    string
	ContactPhone string
	Source       string
	Destination  string
	Departure    time.Time
	Passengers   int
	Seat         string
	Price        float64
}

// BuildTicketPDF renders the e-ticket for a confirmed booking.
func BuildTicketPDF(d TicketData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Ticket", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "E-TICKET")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Passenger      : %s", orDash(d.Passenger)),
		fmt.Sprintf("Contact        : %s", orDash(d.ContactPhone)),
		fmt.Sprintf("Route          : %s -> %s", orDash(d.Source), orDash(d.Destination)),
		fmt.Sprintf("Departure      : %s", d.Departure.Format("2006-01-02 15:04")),
		fmt.Sprintf("Passengers     : %d", d.Passengers),
		fmt.Sprintf("Seat           : %s", orDash(d.Seat)),
		fmt.Sprintf("Price per seat : %.2f", d.Price),
		fmt.Sprintf("Booking ID     : #%d", d.BookingID),
		fmt.Sprintf("Reference      : %s", orDash(d.Reference)),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Please present this e-ticket together with the contact phone used at booking time when boarding.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
