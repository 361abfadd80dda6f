package swisstopo

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/swiss-weather-today/internal/domain"
	"github.com/couchcryptid/swiss-weather-today/internal/observability"
)

const placesHeader = "Ortschaftsname;PLZ4;Zusatzziffer;ZIP_ID;Gemeindename;BFS-Nr;Kantonskürzel;E;N;Sprache;Validity"

type zipEntry struct {
	name string
	body []byte
}

func buildZip(t *testing.T, entries ...zipEntry) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		w, err := zw.Create(e.name)
		require.NoError(t, err)
		_, err = w.Write(e.body)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// stubFetcher returns body (or err) and counts calls; delay holds each call.
type stubFetcher struct {
	body  []byte
	err   error
	delay time.Duration
	calls atomic.Int32
}

func (f *stubFetcher) FetchBytes(ctx context.Context, _, _ string) ([]byte, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.body, f.err
}

func newRepo(f ByteFetcher) *PlaceRepository {
	return NewPlaceRepository(f, DefaultPlacesURL, observability.NewMetricsForTesting(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestPlaces_UTF8(t *testing.T) {
	csv := placesHeader + "\n" +
		"Zürich;8001;0;4388;Zürich;261;ZH;2683141.5;1247000.25;de;2008-07-01\n" +
		"Genève;1201;0;1234;Genève;6621;GE;2500296;1118180;fr;2008-07-01\n"
	f := &stubFetcher{body: buildZip(t,
		zipEntry{"LICENSE.txt", []byte("terms")},
		zipEntry{"AMTOVZ_CSV_LV95/AMTOVZ_CSV_LV95.csv", []byte(csv)},
	)}

	places, err := newRepo(f).Places(context.Background())
	require.NoError(t, err)
	require.Len(t, places, 2)
	assert.Equal(t, domain.Place{PostalCode: "8001", Name: "Zürich", East: 2683141.5, North: 1247000.25}, places[0])
	assert.Equal(t, "Genève", places[1].Name)
}

func TestPlaces_Latin1Fallback(t *testing.T) {
	var body []byte
	body = append(body, []byte("Ortschaftsname;PLZ4;E;N\nZ")...)
	body = append(body, 0xFC) // ü in ISO-8859-1
	body = append(body, []byte("rich;8001;2683141;1247000\n")...)
	f := &stubFetcher{body: buildZip(t, zipEntry{"places.CSV", body})}

	places, err := newRepo(f).Places(context.Background())
	require.NoError(t, err)
	require.Len(t, places, 1)
	assert.Equal(t, "Zürich", places[0].Name)
}

func TestPlaces_Cached(t *testing.T) {
	f := &stubFetcher{body: buildZip(t, zipEntry{"p.csv", []byte("Ortschaftsname;PLZ4;E;N\nBern;3000;2600000;1200000\n")})}
	repo := newRepo(f)

	first, err := repo.Places(context.Background())
	require.NoError(t, err)
	second, err := repo.Places(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), f.calls.Load())
}

func TestPlaces_ConcurrentFirstCallsFetchOnce(t *testing.T) {
	f := &stubFetcher{
		body:  buildZip(t, zipEntry{"p.csv", []byte("Ortschaftsname;PLZ4;E;N\nBern;3000;2600000;1200000\n")}),
		delay: 50 * time.Millisecond,
	}
	repo := newRepo(f)

	var wg sync.WaitGroup
	for range 6 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			places, err := repo.Places(context.Background())
			assert.NoError(t, err)
			assert.Len(t, places, 1)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), f.calls.Load())
}

func TestPlaces_FetchFailureNotCached(t *testing.T) {
	f := &stubFetcher{err: domain.NetworkError(DefaultPlacesURL, 503, nil)}
	repo := newRepo(f)

	_, err := repo.Places(context.Background())
	require.Error(t, err)
	assert.Equal(t, domain.KindNetwork, domain.KindOf(err))

	f.err = nil
	f.body = buildZip(t, zipEntry{"p.csv", []byte("Ortschaftsname;PLZ4;E;N\nBern;3000;2600000;1200000\n")})
	places, err := repo.Places(context.Background())
	require.NoError(t, err)
	assert.Len(t, places, 1)
	assert.Equal(t, int32(2), f.calls.Load())
}

func TestParseArchive_Errors(t *testing.T) {
	tests := []struct {
		name    string
		archive func(t *testing.T) []byte
		kind    domain.Kind
		want    string
	}{
		{
			name:    "not a zip",
			archive: func(*testing.T) []byte { return []byte("plain text") },
			kind:    domain.KindCsvParse,
			want:    "ZIP",
		},
		{
			name: "no csv entry",
			archive: func(t *testing.T) []byte {
				return buildZip(t, zipEntry{"readme.txt", []byte("x")})
			},
			kind: domain.KindCsvParse,
			want: "does not contain a CSV",
		},
		{
			name: "missing column",
			archive: func(t *testing.T) []byte {
				return buildZip(t, zipEntry{"p.csv", []byte("Ortschaftsname;PLZ4;E\nBern;3000;1\n")})
			},
			kind: domain.KindSchemaMismatch,
			want: "N",
		},
		{
			name: "blank postal code",
			archive: func(t *testing.T) []byte {
				return buildZip(t, zipEntry{"p.csv", []byte("Ortschaftsname;PLZ4;E;N\nBern;;2600000;1200000\n")})
			},
			kind: domain.KindInvalidValue,
			want: "PLZ4",
		},
		{
			name: "non-numeric north",
			archive: func(t *testing.T) []byte {
				return buildZip(t, zipEntry{"p.csv", []byte("Ortschaftsname;PLZ4;E;N\nBern;3000;2600000;north\n")})
			},
			kind: domain.KindInvalidValue,
			want: "N must be a finite number",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseArchive(tt.archive(t))
			require.Error(t, err)
			assert.Equal(t, tt.kind, domain.KindOf(err))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseArchive_Empty(t *testing.T) {
	_, err := ParseArchive(nil)
	var derr *domain.Error
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, domain.KindCsvParse, derr.Kind)
}
