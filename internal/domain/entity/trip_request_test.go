package entity

import (
	"errors"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWatchTokenRoundTrip(t *testing.T) {
	ret := date(2025, time.March, 20)
	tests := []struct {
		name  string
		query TripQuery
		want  string
	}{
		{
			name: "round trip",
			query: TripQuery{
				Origin:      "MOW",
				Destination: "DXB",
				DepartDate:  date(2025, time.March, 10),
				ReturnDate:  &ret,
				Passengers:  2,
			},
			want: "w:MOW:DXB:20250310:20250320:2",
		},
		{
			name: "one way",
			query: TripQuery{
				Origin:      "MOW",
				Destination: "DPS",
				DepartDate:  date(2025, time.April, 1),
				Passengers:  3,
			},
			want: "w:MOW:DPS:20250401:0:3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := EncodeWatchToken(tt.query)
			if token != tt.want {
				t.Fatalf("EncodeWatchToken = %q, want %q", token, tt.want)
			}

			parsed, err := ParseWatchToken(token)
			if err != nil {
				t.Fatalf("ParseWatchToken returned error: %v", err)
			}
			if parsed.Origin != tt.query.Origin || parsed.Destination != tt.query.Destination {
				t.Fatalf("parsed route %s-%s, want %s-%s", parsed.Origin, parsed.Destination, tt.query.Origin, tt.query.Destination)
			}
			if !parsed.DepartDate.Equal(tt.query.DepartDate) {
				t.Fatalf("parsed depart %v, want %v", parsed.DepartDate, tt.query.DepartDate)
			}
			if (parsed.ReturnDate == nil) != (tt.query.ReturnDate == nil) {
				t.Fatalf("parsed return presence mismatch")
			}
			if parsed.ReturnDate != nil && !parsed.ReturnDate.Equal(*tt.query.ReturnDate) {
				t.Fatalf("parsed return %v, want %v", parsed.ReturnDate, tt.query.ReturnDate)
			}
			if parsed.Passengers != tt.query.Passengers {
				t.Fatalf("parsed passengers %d, want %d", parsed.Passengers, tt.query.Passengers)
			}
		})
	}
}

func TestParseWatchTokenMalformed(t *testing.T) {
	tokens := []string{
		"",
		"sub:MOW:DXB:20250310:20250320:2",
		"w:MOW:DXB:20250310:2",
		"w:MOW:DXB:notadate:0:1",
		"w:MOW:DXB:20250310:notadate:1",
		"w:MOW:DXB:20250310:0:x",
		"w:MOW:DXB:20250310:0:0",
		"w:MOW:DXB:20250310:0:10",
		"w:MOSCOW:DXB:20250310:0:1",
		"w:MOW:DXB:20250320:20250310:1",
	}

	for _, token := range tokens {
		if _, err := ParseWatchToken(token); !errors.Is(err, ErrInvalidWatchToken) {
			t.Errorf("ParseWatchToken(%q) error = %v, want ErrInvalidWatchToken", token, err)
		}
	}
}

func TestTripQueryValidate(t *testing.T) {
	ret := date(2025, time.March, 20)
	valid := TripQuery{Origin: "MOW", Destination: "DXB", DepartDate: date(2025, time.March, 10), ReturnDate: &ret, Passengers: 2}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid query rejected: %v", err)
	}

	sameDay := valid
	sameDay.ReturnDate = &sameDay.DepartDate
	if err := sameDay.Validate(); err == nil {
		t.Fatal("zero-length stay accepted")
	}
}

func TestParseStoredDate(t *testing.T) {
	tests := []struct {
		value string
		want  time.Time
		ok    bool
	}{
		{"2025-03-10", date(2025, time.March, 10), true},
		{"20250310", date(2025, time.March, 10), true},
		{"2025-03-10 00:00:00", date(2025, time.March, 10), true},
		{"2025-03-10T12:30:00", date(2025, time.March, 10), true},
		{"  2025-03-10  ", date(2025, time.March, 10), true},
		{"0", time.Time{}, false},
		{"", time.Time{}, false},
		{"None", time.Time{}, false},
		{"null", time.Time{}, false},
		{"garbage", time.Time{}, false},
	}

	for _, tt := range tests {
		got, ok := ParseStoredDate(tt.value)
		if ok != tt.ok {
			t.Errorf("ParseStoredDate(%q) ok = %v, want %v", tt.value, ok, tt.ok)
			continue
		}
		if ok && !got.Equal(tt.want) {
			t.Errorf("ParseStoredDate(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestCarrierDirectoryFallback(t *testing.T) {
	dir := NewCarrierDirectory([]Airline{
		{Code: "SU", Name: "Aeroflot"},
		{Code: "ek", Name: "Emirates"},
	})

	if got := dir.DisplayName("SU"); got != "Aeroflot" {
		t.Fatalf("DisplayName(SU) = %q", got)
	}
	if got := dir.DisplayName("EK"); got != "Emirates" {
		t.Fatalf("DisplayName(EK) = %q", got)
	}
	if got := dir.DisplayName("ZZ"); got != "ZZ" {
		t.Fatalf("DisplayName(ZZ) = %q, want raw code fallback", got)
	}
}

func TestRoundTripOfferStayLength(t *testing.T) {
	offer := RoundTripOffer{
		Outbound: FareOffer{DepartureAt: time.Date(2025, time.March, 10, 23, 50, 0, 0, time.UTC)},
		Inbound:  FareOffer{DepartureAt: time.Date(2025, time.March, 20, 0, 10, 0, 0, time.UTC)},
	}
	if got := offer.StayLength(); got != 10 {
		t.Fatalf("StayLength = %d, want 10 (time of day must not matter)", got)
	}
}
