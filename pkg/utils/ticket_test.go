package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTicketPDF(t *testing.T) {
	pdf, err := BuildTicketPDF(TicketData{
		BookingID:    12,
		Reference:    "f4b7e8d0-0000-0000-0000-000000000000",
		Passenger:    "Ama Mensah",
		ContactPhone: "0241234567",
		Source:       "Accra",
		Destination:  "Kumasi",
		Departure:    time.Date(2026, 9, 10, 6, 30, 0, 0, time.UTC),
		Passengers:   2,
		Seat:         "13A",
		Price:        80,
	})
	require.NoError(t, err)
	require.NotEmpty(t, pdf)

	// %PDF header marks a well-formed document.
	assert.Equal(t, "%PDF", string(pdf[:4]))
}

func TestBuildTicketPDFEmptyFields(t *testing.T) {
	pdf, err := BuildTicketPDF(TicketData{Departure: time.Now()})
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)
}
