// Package demohost is an in-memory stand-in for the patient-records host.
// It serves the same HTTP contract the client speaks, so the terminal UI
// can be run and tested without the real host.
package demohost

import (
	"encoding/base64"
	"fmt"
	"math/rand/v2"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/skip2/go-qrcode"

	"github.com/mrsinham/patientdesk/internal/demohost/edgecases"
	"github.com/mrsinham/patientdesk/internal/patient"
	"github.com/mrsinham/patientdesk/internal/util"
)

const timestampLayout = "2006-01-02 15:04:05"

// DashboardURL is what open-dashboard points at.
const DashboardURL = "https://vercel.com/dashboard"

// Options configures a Store.
type Options struct {
	// PublicHost is the domain report links point at.
	PublicHost string
	// Patients is how many records to seed.
	Patients int
	// Seed makes seeding reproducible; zero picks a random seed.
	Seed uint64
	// ReportFailure, when set, makes every report generation fail with
	// this message.
	ReportFailure string
	// EdgeCases makes a share of the seeded records awkward.
	EdgeCases edgecases.Config
	Logger    zerolog.Logger
	// Now is the clock used for modification stamps.
	Now func() time.Time
}

type record struct {
	detail   patient.Detail
	emailed  bool
	whatsapp bool
}

// Store holds the records and generated QR codes. It is safe for
// concurrent use.
type Store struct {
	mu      sync.Mutex
	records map[string]*record
	// qr holds PNG bytes per report folder.
	qr map[string][]byte

	publicHost    string
	reportFailure string
	log           zerolog.Logger
	now           func() time.Time
}

// NewStore creates a store seeded with opts.Patients generated records.
func NewStore(opts Options) *Store {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.PublicHost == "" {
		opts.PublicHost = "reports.example.com"
	}
	s := &Store{
		records:       map[string]*record{},
		qr:            map[string][]byte{},
		publicHost:    opts.PublicHost,
		reportFailure: opts.ReportFailure,
		log:           opts.Logger,
		now:           opts.Now,
	}

	seed := opts.Seed
	if seed == 0 {
		seed = uint64(opts.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed>>1))
	s.seed(opts.Patients, rng, edgecases.NewApplicator(opts.EdgeCases, rng))
	return s
}

var (
	clinics = []string{"North Clinic", "Harbour Medical", "City Lab", "Riverside Health"}
	doctors = []string{"Dr. Amrani", "Dr. Keller", "Dr. Okafor", "Dr. Lindqvist", "Dr. Moreau"}
)

func (s *Store) seed(n int, rng *rand.Rand, edges *edgecases.Applicator) {
	base := s.now()
	for i := 1; i <= n; i++ {
		sex := "F"
		gender := "Female"
		if rng.IntN(2) == 0 {
			sex, gender = "M", "Male"
		}
		name := util.FormatPersonName(util.GeneratePatientName(sex, rng))
		id := fmt.Sprintf("P%03d", i)
		stamp := base.Add(-time.Duration(rng.IntN(90*24)) * time.Hour).Format(timestampLayout)
		d := patient.Detail{
			ID:           id,
			Name:         name,
			Age:          fmt.Sprintf("%d", 18+rng.IntN(70)),
			Gender:       gender,
			Clinic:       clinics[rng.IntN(len(clinics))],
			Doctor:       doctors[rng.IntN(len(doctors))],
			Date:         stamp,
			LastModified: stamp,
			Phone:        fmt.Sprintf("+1555%07d", rng.IntN(10_000_000)),
			Email:        strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com",
			Abs:          fmt.Sprintf("%.3f", rng.Float64()),
			Conc:         fmt.Sprintf("%.1f", rng.Float64()*100),
			Trans:        fmt.Sprintf("%.1f", rng.Float64()*100),
		}
		if edges.ShouldApply() {
			edge := edges.Apply(&d, sex)
			if _, taken := s.records[d.ID]; taken || d.ID == "" {
				d.ID = id
			}
			s.log.Debug().Str("patient_id", d.ID).Str("edge_case", string(edge)).Msg("seeded edge case")
		}
		s.records[d.ID] = &record{detail: d}
	}
}

// List returns the summaries ordered by id. The list date is the last
// modification stamp.
func (s *Store) List() []patient.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]patient.Summary, 0, len(s.records))
	for _, r := range s.records {
		sum := r.detail.Summary()
		sum.Date = r.detail.LastModified
		out = append(out, sum)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Detail returns the full record with its status flags.
func (s *Store) Detail(id string) (patient.Detail, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.records[id]
	if !ok {
		return patient.Detail{}, false
	}
	d := r.detail
	_, generated := s.qr[ReportFolder(d.Name, d.ID)]
	d.Status = &patient.StatusFlags{
		Saved:     true,
		Generated: generated,
		Emailed:   r.emailed,
		WhatsApp:  r.whatsapp,
	}
	return d, true
}

// Save creates or updates a record and stamps it. An empty id is refused.
func (s *Store) Save(d patient.Detail) bool {
	if strings.TrimSpace(d.ID) == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	stamp := s.now().Format(timestampLayout)
	d.Date = stamp
	d.LastModified = stamp
	d.Status = nil

	if r, ok := s.records[d.ID]; ok {
		r.detail = d
		return true
	}
	s.records[d.ID] = &record{detail: d}
	return true
}

// Delete removes a record and every report generated for it.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return false
	}
	delete(s.records, id)
	suffix := SafeFilename("_" + id)
	for folder := range s.qr {
		if strings.HasSuffix(folder, suffix) {
			delete(s.qr, folder)
		}
	}
	return true
}

// Generate builds the report QR code for id.
func (s *Store) Generate(id string) patient.ReportResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.reportFailure != "" {
		return patient.ReportResult{Success: false, Message: s.reportFailure}
	}
	r, ok := s.records[id]
	if !ok {
		return patient.ReportResult{Success: false, Message: fmt.Sprintf("patient %s not found", id)}
	}

	link := ReportURL(s.publicHost, r.detail.Name, id)
	png, err := qrcode.Encode(link, qrcode.Medium, 256)
	if err != nil {
		return patient.ReportResult{Success: false, Message: err.Error()}
	}
	s.qr[ReportFolder(r.detail.Name, id)] = png
	s.log.Info().Str("patient_id", id).Str("url", link).Msg("report generated")
	return patient.ReportResult{Success: true, Message: "Success"}
}

// QRData returns the report QR code as a PNG data URI, or "" when no
// report exists in the folder for name and id.
func (s *Store) QRData(name, id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	png, ok := s.qr[ReportFolder(name, id)]
	if !ok {
		return ""
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
}

// SendEmail marks the report as emailed and returns the mailto link a
// desktop host would open. Records without an email address are skipped.
func (s *Store) SendEmail(id string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.records[id]
	if !ok || r.detail.Email == "" {
		return "", false
	}
	name := r.detail.Name
	subject := "Your Test Report"
	body := fmt.Sprintf("Dear %s,\n\nYou can access your report here:\n%s\n", name, ReportURL(s.publicHost, name, id))
	r.emailed = true
	return fmt.Sprintf("mailto:%s?subject=%s&body=%s", r.detail.Email, url.PathEscape(subject), url.PathEscape(body)), true
}

var nonDialable = regexp.MustCompile(`[^\d+]`)

// SendWhatsApp marks the report as sent and returns the wa.me link.
// Records without a phone number are skipped.
func (s *Store) SendWhatsApp(id string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.records[id]
	if !ok || r.detail.Phone == "" {
		return "", false
	}
	name := r.detail.Name
	msg := fmt.Sprintf("Hello %s, your test report is ready: %s", name, ReportURL(s.publicHost, name, id))
	r.whatsapp = true
	return fmt.Sprintf("https://wa.me/%s?text=%s", nonDialable.ReplaceAllString(r.detail.Phone, ""), url.QueryEscape(msg)), true
}

// Folder returns the report folder of id.
func (s *Store) Folder(id string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.records[id]
	if !ok {
		return "", false
	}
	return ReportFolder(r.detail.Name, id), true
}

var unsafeFilenameChars = strings.NewReplacer(
	`\`, "_", "/", "_", ":", "_", "*", "_", "?", "_", `"`, "_", "<", "_", ">", "_", "|", "_",
)

// SafeFilename replaces characters that are not allowed in file names.
// Case and spaces are kept.
func SafeFilename(text string) string {
	if text == "" {
		return "unknown"
	}
	return unsafeFilenameChars.Replace(text)
}

// ReportFolder is the folder holding the report of a patient.
func ReportFolder(name, id string) string {
	return SafeFilename(name + "_" + id)
}

// ReportURL is the public link encoded in the QR code.
func ReportURL(host, name, id string) string {
	return fmt.Sprintf("https://%s/QR_Patients/%s/patient_%s.html", host, url.PathEscape(ReportFolder(name, id)), id)
}
