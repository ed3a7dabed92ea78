package importcsv_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmcortes/habita/internal/http/importcsv"
	"github.com/jmcortes/habita/internal/importer"
	"github.com/jmcortes/habita/internal/matching"
	"github.com/jmcortes/habita/internal/payment"
)

type stubMatchRepo struct {
	tenants map[string]uuid.UUID
	errRefs map[string]bool
}

func (s *stubMatchRepo) FindTenant(_ context.Context, ref string) (uuid.UUID, error) {
	if s.errRefs[ref] {
		return uuid.Nil, errors.New("db down")
	}

	return s.tenants[ref], nil
}

func (s *stubMatchRepo) CreateMapping(context.Context, string, uuid.UUID) error {
	return nil
}

type stubPaymentRepo struct {
	created []*payment.Payment
}

func (s *stubPaymentRepo) CreatePayment(_ context.Context, p *payment.Payment) error {
	p.ID = uuid.New()
	s.created = append(s.created, p)

	return nil
}

func (s *stubPaymentRepo) GetPayment(context.Context, uuid.UUID) (*payment.Payment, error) {
	return nil, payment.ErrNotFound
}

func (s *stubPaymentRepo) ListPayments(context.Context, payment.ListFilter) ([]*payment.Payment, error) {
	return nil, nil
}

func (s *stubPaymentRepo) ListByPropertyAndRange(context.Context, uuid.UUID, time.Time, time.Time) ([]*payment.Payment, error) {
	return nil, nil
}

func multipartImport(t *testing.T, propertyID uuid.UUID, csv string) *http.Request {
	t.Helper()

	var body bytes.Buffer

	w := multipart.NewWriter(&body)
	require.NoError(t, w.WriteField("source", "sgb"))
	require.NoError(t, w.WriteField("property_id", propertyID.String()))

	file, err := w.CreateFormFile("file", "export.csv")
	require.NoError(t, err)
	_, err = file.Write([]byte(csv))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/import/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())

	return req
}

// A failed tenant lookup must not abort the import or be mistaken for a
// clean no-match: the row lands in unmatched and the rest still imports.
func TestImportCSV_LookupFailureKeepsRowImportable(t *testing.T) {
	tenantID := uuid.New()
	propertyID := uuid.New()

	matchRepo := &stubMatchRepo{
		tenants: map[string]uuid.UUID{"LOYER MAI APT 2C": tenantID},
		errRefs: map[string]bool{"VIREMENT INCONNU": true},
	}
	paymentRepo := &stubPaymentRepo{}

	h := importcsv.NewHandler(
		importer.NewService(),
		payment.NewService(paymentRepo),
		matching.NewService(matchRepo),
	)

	router := chi.NewRouter()
	router.Route("/import", h.Routes)

	csv := strings.Join([]string{
		"Date opération;Référence;Débit;Crédit",
		"03/05/2024;LOYER MAI APT 2C;;300,00",
		"04/05/2024;VIREMENT INCONNU;;150,00",
	}, "\n")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, multipartImport(t, propertyID, csv))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Imported  int `json:"imported"`
		Payments  []struct {
			TenantID  uuid.UUID `json:"tenant_id"`
			Reference string    `json:"reference"`
		} `json:"payments"`
		Unmatched []struct {
			Reference string `json:"reference"`
		} `json:"unmatched"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, 1, resp.Imported)
	require.Len(t, resp.Payments, 1)
	assert.Equal(t, tenantID, resp.Payments[0].TenantID)
	assert.Equal(t, "LOYER MAI APT 2C", resp.Payments[0].Reference)

	require.Len(t, resp.Unmatched, 1)
	assert.Equal(t, "VIREMENT INCONNU", resp.Unmatched[0].Reference)

	require.Len(t, paymentRepo.created, 1)
	assert.Equal(t, propertyID, paymentRepo.created[0].PropertyID)
}
