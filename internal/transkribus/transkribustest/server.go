// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package transkribustest provides an in-memory Transkribus server for
// tests. It implements the endpoints the client uses and records every
// call it receives.
package transkribustest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"

	"github.com/pdiddy/transkribus-batch/pkg/types"
)

// Upload is a container created through POST /uploads.
type Upload struct {
	ID           string
	CollectionID string
	Title        string
	Pages        []types.PageRecord
	Received     []ReceivedPage
}

// ReceivedPage is one multipart PUT accepted into an upload.
type ReceivedPage struct {
	ImgName string
	XMLName string
	XMLBody string
}

// Update is one accepted POST .../text call.
type Update struct {
	CollectionID string
	DocID        int
	PageNr       int
	Status       string
	Overwrite    string
	ContentType  string
	Body         string
}

// Server fakes the Transkribus REST API. Configure the exported fields
// before issuing requests; read the recorded fields after.
type Server struct {
	*httptest.Server

	User     string
	Password string

	Documents []types.Document
	FullDocs  map[int]types.FullDocument

	// Status overrides. A non-zero value is returned instead of 200.
	ListStatus    int
	FullDocStatus map[int]int
	CreateStatus  int
	PageStatus    map[string]int // keyed by image file name
	UpdateStatus  map[int]int    // keyed by page number

	mu       sync.Mutex
	token    string
	logins   int
	uploads  []*Upload
	updates  []Update
	requests []string
}

// New starts a server that accepts user/password. Close it when done.
func New(user, password string) *Server {
	s := &Server{
		User:          user,
		Password:      password,
		FullDocs:      map[int]types.FullDocument{},
		FullDocStatus: map[int]int{},
		PageStatus:    map[string]int{},
		UpdateStatus:  map[int]int{},
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// BaseURL returns the REST root to configure a client with.
func (s *Server) BaseURL() string {
	return s.URL + "/rest"
}

// AddDocument registers a document in the listing and its page manifest.
func (s *Server) AddDocument(docID int, title string, imgFileNames ...string) {
	s.Documents = append(s.Documents, types.Document{DocID: docID, Title: title, NrOfPages: len(imgFileNames)})
	var fd types.FullDocument
	fd.MD.DocID = docID
	fd.MD.Title = title
	for i, name := range imgFileNames {
		fd.PageList.Pages = append(fd.PageList.Pages, types.PageEntry{PageNr: i + 1, ImgFileName: name})
	}
	s.FullDocs[docID] = fd
}

// ExpireSession invalidates the current token so the next authenticated
// call gets 401.
func (s *Server) ExpireSession() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
}

// Logins returns the number of successful logins.
func (s *Server) Logins() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logins
}

// Uploads returns the upload containers created so far.
func (s *Server) Uploads() []*Upload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Upload(nil), s.uploads...)
}

// Updates returns the accepted page updates.
func (s *Server) Updates() []Update {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Update(nil), s.updates...)
}

// Requests returns "METHOD /path" for every request received, in order.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.requests = append(s.requests, r.Method+" "+r.URL.Path)

	path := strings.TrimPrefix(r.URL.Path, "/rest/")
	parts := strings.Split(path, "/")

	if path == "auth/login" && r.Method == http.MethodPost {
		s.login(w, r)
		return
	}

	cookie, err := r.Cookie("JSESSIONID")
	if err != nil || s.token == "" || cookie.Value != s.token {
		http.Error(w, "session expired", http.StatusUnauthorized)
		return
	}

	switch {
	case r.Method == http.MethodGet && len(parts) == 3 && parts[0] == "collections" && parts[2] == "list":
		s.list(w)
	case r.Method == http.MethodGet && len(parts) == 4 && parts[0] == "collections" && parts[3] == "fulldoc":
		s.fullDoc(w, parts[2])
	case r.Method == http.MethodPost && len(parts) == 5 && parts[0] == "collections" && parts[4] == "text":
		s.updateText(w, r, parts[1], parts[2], parts[3])
	case r.Method == http.MethodPost && path == "uploads":
		s.createUpload(w, r)
	case r.Method == http.MethodPut && len(parts) == 2 && parts[0] == "uploads":
		s.uploadPage(w, r, parts[1])
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if r.PostForm.Get("user") != s.User || r.PostForm.Get("pw") != s.Password {
		http.Error(w, "Invalid credentials", http.StatusForbidden)
		return
	}
	s.logins++
	s.token = fmt.Sprintf("session-%d", s.logins)
	w.Header().Set("Content-Type", "application/xml")
	fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?><trpUserLogin><userId>1</userId><userName>%s</userName><sessionId>%s</sessionId></trpUserLogin>`, s.User, s.token)
}

func (s *Server) list(w http.ResponseWriter) {
	if s.ListStatus != 0 {
		http.Error(w, "listing failed", s.ListStatus)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.Documents)
}

func (s *Server) fullDoc(w http.ResponseWriter, rawDocID string) {
	docID, _ := strconv.Atoi(rawDocID)
	if status := s.FullDocStatus[docID]; status != 0 {
		http.Error(w, "fulldoc failed", status)
		return
	}
	doc, ok := s.FullDocs[docID]
	if !ok {
		http.Error(w, "no such document", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(doc)
}

func (s *Server) updateText(w http.ResponseWriter, r *http.Request, collID, rawDocID, rawPageNr string) {
	docID, _ := strconv.Atoi(rawDocID)
	pageNr, _ := strconv.Atoi(rawPageNr)
	if status := s.UpdateStatus[pageNr]; status != 0 {
		http.Error(w, "update rejected", status)
		return
	}
	body, _ := io.ReadAll(r.Body)
	s.updates = append(s.updates, Update{
		CollectionID: collID,
		DocID:        docID,
		PageNr:       pageNr,
		Status:       r.URL.Query().Get("status"),
		Overwrite:    r.URL.Query().Get("overwrite"),
		ContentType:  r.Header.Get("Content-Type"),
		Body:         string(body),
	})
	w.WriteHeader(http.StatusOK)
}

func (s *Server) createUpload(w http.ResponseWriter, r *http.Request) {
	if s.CreateStatus != 0 {
		http.Error(w, "upload rejected", s.CreateStatus)
		return
	}
	var body struct {
		MD struct {
			Title string `json:"title"`
		} `json:"md"`
		PageList struct {
			Pages []types.PageRecord `json:"pages"`
		} `json:"pageList"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	u := &Upload{
		ID:           strconv.Itoa(1000 + len(s.uploads)),
		CollectionID: r.URL.Query().Get("collId"),
		Title:        body.MD.Title,
		Pages:        body.PageList.Pages,
	}
	s.uploads = append(s.uploads, u)
	w.Header().Set("Content-Type", "application/xml")
	fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?><trpUpload><uploadId>%s</uploadId><md><title>%s</title></md></trpUpload>`, u.ID, u.Title)
}

func (s *Server) uploadPage(w http.ResponseWriter, r *http.Request, uploadID string) {
	var u *Upload
	for _, candidate := range s.uploads {
		if candidate.ID == uploadID {
			u = candidate
		}
	}
	if u == nil {
		http.Error(w, "no such upload", http.StatusNotFound)
		return
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	img, imgHeader, err := r.FormFile("img")
	if err != nil {
		http.Error(w, "missing img", http.StatusBadRequest)
		return
	}
	img.Close()

	if status := s.PageStatus[imgHeader.Filename]; status != 0 {
		http.Error(w, "page rejected", status)
		return
	}

	page := ReceivedPage{ImgName: imgHeader.Filename}
	if xmlFile, xmlHeader, err := r.FormFile("xml"); err == nil {
		data, _ := io.ReadAll(xmlFile)
		xmlFile.Close()
		page.XMLName = xmlHeader.Filename
		page.XMLBody = string(data)
	}
	u.Received = append(u.Received, page)
	w.WriteHeader(http.StatusOK)
}
