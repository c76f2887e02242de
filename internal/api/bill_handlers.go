package api

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/paisatrack/paisatrack/internal/middleware"
	"github.com/paisatrack/paisatrack/internal/models"
	"github.com/paisatrack/paisatrack/internal/service"
)

// uploadBodyLimit bounds the whole multipart body: the 2 MiB file plus
// headroom for the form fields. The precise file-size check lives in the
// service.
const uploadBodyLimit = service.MaxBillSize + 1<<20

func (s *Server) handleUploadBill(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, uploadBodyLimit)
	if err := r.ParseMultipartForm(uploadBodyLimit); err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "invalid multipart form"})
		return
	}

	amount, err := strconv.ParseFloat(r.FormValue("amount"), 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "please enter a valid amount"})
		return
	}
	date, ok := parseDate(r.FormValue("date"))
	if !ok {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "date must be YYYY-MM-DD or RFC 3339"})
		return
	}

	file, header, err := r.FormFile("billFile")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "please upload a bill file (PDF or JPG)"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, r, fmt.Errorf("failed to read uploaded file: %w", err))
		return
	}

	tx, err := s.bills.Upload(r.Context(), userID, service.BillUploadInput{
		TransactionInput: service.TransactionInput{
			Title:       r.FormValue("title"),
			Amount:      amount,
			Category:    r.FormValue("category"),
			Date:        date,
			Type:        models.TransactionType(r.FormValue("type")),
			Description: r.FormValue("description"),
			Merchant:    r.FormValue("merchant"),
		},
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, struct {
		Message     string              `json:"message"`
		Transaction *models.Transaction `json:"transaction"`
	}{
		Message:     "bill uploaded",
		Transaction: tx,
	})
}

func (s *Server) handleListUserBills(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	txs, err := s.bills.ListUserBills(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if txs == nil {
		txs = []*models.Transaction{}
	}

	writeJSON(w, http.StatusOK, txs)
}

func (s *Server) handleServeBill(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	fileID := mux.Vars(r)["fileId"]

	blob, err := s.bills.Serve(r.Context(), userID, fileID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", blob.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", blob.Filename))
	w.Header().Set("Content-Length", strconv.FormatInt(blob.Size, 10))
	w.Write(blob.Data)
}

func (s *Server) handleDeleteBill(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	transactionID := mux.Vars(r)["transactionId"]

	if err := s.bills.Delete(r.Context(), userID, transactionID); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "bill deleted"})
}
