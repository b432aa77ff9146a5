// Package logstats summarises the daily info and error log files written by
// the utils loggers.
package logstats

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

var (
	linePrefix = regexp.MustCompile(`^[A-Z]+: \d{4}/\d{2}/\d{2} \d{2}:\d{2}:\d{2} [^:]+:\d+: `)
	orderRef   = regexp.MustCompile(`order (\S+)`)
)

type Stats struct {
	BillsCreated        int
	BillFailures        int
	CallbacksReceived   int
	CallbacksPaid       int
	CallbacksFailed     int
	SignatureRejections int
	OrderUpdateFailures int
	StripeWebhooks      int
	StripeRejections    int
	AdminLogins         int
	AdminLoginFailures  int
	TotalErrors         int
	OrderActivity       map[string]int
	ErrorPatterns       map[string]int
}

func newStats() *Stats {
	return &Stats{
		OrderActivity: make(map[string]int),
		ErrorPatterns: make(map[string]int),
	}
}

// AnalyzeDir reads info-DATE.log and error-DATE.log from dir. A missing file
// counts as empty.
func AnalyzeDir(dir string, day time.Time) (*Stats, error) {
	date := day.Format("2006-01-02")
	stats := newStats()

	for _, f := range []struct {
		kind string
		fn   func(io.Reader, *Stats) error
	}{
		{"info", analyzeInfo},
		{"error", analyzeErrors},
	} {
		file, err := os.Open(filepath.Join(dir, fmt.Sprintf("%s-%s.log", f.kind, date)))
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		err = f.fn(file, stats)
		file.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s log: %w", f.kind, err)
		}
	}
	return stats, nil
}

// Analyze summarises an info and an error log stream
func Analyze(info, errs io.Reader) (*Stats, error) {
	stats := newStats()
	if err := analyzeInfo(info, stats); err != nil {
		return nil, err
	}
	if err := analyzeErrors(errs, stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func analyzeInfo(r io.Reader, stats *Stats) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		msg := message(scanner.Text())

		switch {
		case strings.HasPrefix(msg, "Created bill "):
			stats.BillsCreated++
			trackOrder(msg, stats)
		case msg == "Billplz callback received":
			stats.CallbacksReceived++
		case strings.HasPrefix(msg, "Billplz callback for order "):
			trackOrder(msg, stats)
			if strings.HasSuffix(msg, "-> paid") {
				stats.CallbacksPaid++
			} else if strings.HasSuffix(msg, "-> failed") {
				stats.CallbacksFailed++
			}
		case strings.HasPrefix(msg, "Stripe webhook "):
			stats.StripeWebhooks++
		case strings.HasPrefix(msg, "Admin login successful"):
			stats.AdminLogins++
		}
	}
	return scanner.Err()
}

func analyzeErrors(r io.Reader, stats *Stats) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		msg := message(scanner.Text())
		if msg == "" {
			continue
		}
		stats.TotalErrors++

		switch {
		case strings.HasPrefix(msg, "Failed to create bill"):
			stats.BillFailures++
			trackOrder(msg, stats)
		case strings.Contains(msg, "signature mismatch"):
			stats.SignatureRejections++
		case strings.HasPrefix(msg, "Failed to update order"):
			stats.OrderUpdateFailures++
			trackOrder(msg, stats)
		case strings.HasPrefix(msg, "Stripe webhook rejected"):
			stats.StripeRejections++
		case strings.HasPrefix(msg, "Failed admin login"):
			stats.AdminLoginFailures++
		}

		stats.ErrorPatterns[pattern(msg)]++
	}
	return scanner.Err()
}

// message strips the logger prefix. Continuation lines of stack traces
// come back unchanged.
func message(line string) string {
	return strings.TrimSpace(linePrefix.ReplaceAllString(line, ""))
}

func pattern(msg string) string {
	if i := strings.Index(msg, ": "); i > 0 {
		msg = msg[:i]
	}
	return msg
}

func trackOrder(msg string, stats *Stats) {
	if m := orderRef.FindStringSubmatch(msg); m != nil {
		stats.OrderActivity[strings.TrimSuffix(m[1], ":")]++
	}
}

// WriteReport prints the summary in the same layout operators read daily
func WriteReport(w io.Writer, stats *Stats, generated time.Time) {
	fmt.Fprintln(w, "\n=== Log Analysis Report ===")
	fmt.Fprintln(w, "Generated:", generated.Format("2006-01-02 15:04:05"))

	fmt.Fprintln(w, "\n1. Billplz:")
	fmt.Fprintf(w, "   Bills Created: %d\n", stats.BillsCreated)
	fmt.Fprintf(w, "   Bill Failures: %d\n", stats.BillFailures)
	fmt.Fprintf(w, "   Callbacks Received: %d\n", stats.CallbacksReceived)
	fmt.Fprintf(w, "   Callbacks Paid: %d\n", stats.CallbacksPaid)
	fmt.Fprintf(w, "   Callbacks Failed: %d\n", stats.CallbacksFailed)
	fmt.Fprintf(w, "   Signature Rejections: %d\n", stats.SignatureRejections)
	fmt.Fprintf(w, "   Order Update Failures: %d\n", stats.OrderUpdateFailures)

	fmt.Fprintln(w, "\n2. Stripe:")
	fmt.Fprintf(w, "   Webhooks: %d\n", stats.StripeWebhooks)
	fmt.Fprintf(w, "   Rejected: %d\n", stats.StripeRejections)

	fmt.Fprintln(w, "\n3. Admin:")
	fmt.Fprintf(w, "   Logins: %d\n", stats.AdminLogins)
	fmt.Fprintf(w, "   Failed Logins: %d\n", stats.AdminLoginFailures)

	fmt.Fprintln(w, "\n4. Error Statistics:")
	fmt.Fprintf(w, "   Total Errors: %d\n", stats.TotalErrors)

	fmt.Fprintln(w, "\n5. Most Active Orders:")
	for _, e := range top(stats.OrderActivity, 5) {
		fmt.Fprintf(w, "   %s: %d events\n", e.key, e.count)
	}

	fmt.Fprintln(w, "\n6. Most Common Errors:")
	for _, e := range top(stats.ErrorPatterns, 5) {
		fmt.Fprintf(w, "   %s: %d occurrences\n", e.key, e.count)
	}
}

type entry struct {
	key   string
	count int
}

func top(counts map[string]int, limit int) []entry {
	entries := make([]entry, 0, len(counts))
	for k, c := range counts {
		entries = append(entries, entry{k, c})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].key < entries[j].key
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}
