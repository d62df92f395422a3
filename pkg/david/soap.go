// Hand-built SOAP 1.1 transport for the DAVID Axis2 service. The
// service has three calls we care about (authenticate, addList,
// getTermClusterReport) and tracks the authenticated session with a
// cookie, so the HTTP client carries a jar.

package david

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strconv"
	"strings"
	"time"
)

const soapNS = "http://service.session.sample"

// SOAPClient is the production Service implementation.
type SOAPClient struct {
	endpoint string
	http     *http.Client
}

func NewSOAPClient(endpoint string, timeout time.Duration) (*SOAPClient, error) {

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	return &SOAPClient{
		endpoint: endpoint,
		http: &http.Client{
			Timeout: timeout,
			Jar:     jar,
		},
	}, nil
}

// Authenticate registers the session for a DAVID-registered email.
// Must be called once before any Submit.
func (c *SOAPClient) Authenticate(email string) error {

	body, err := c.call("authenticate", []string{email})
	if err != nil {
		return fmt.Errorf("authenticate: %w", err)
	}

	var resp struct {
		Return string `xml:"Body>authenticateResponse>return"`
	}
	if err := xml.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("authenticate: parse response: %w", err)
	}

	if strings.Contains(resp.Return, "Failed") || resp.Return == "false" {
		return fmt.Errorf("authenticate: DAVID rejected %q: %s", email, resp.Return)
	}

	return nil
}

// Submit uploads one window's gene IDs as a named gene list and fetches
// the term-cluster report for it.
func (c *SOAPClient) Submit(ids []int, listName string) (*TermClusterReport, error) {

	joined := make([]string, len(ids))
	for i, id := range ids {
		joined[i] = strconv.Itoa(id)
	}

	_, err := c.call("addList", []string{
		strings.Join(joined, ","),
		idTypeEntrez,
		listName,
		strconv.Itoa(listTypeGene),
	})
	if err != nil {
		return nil, fmt.Errorf("addList %s: %w", listName, err)
	}

	body, err := c.call("getTermClusterReport", []string{
		strconv.Itoa(clusterOverlap),
		strconv.Itoa(clusterInitialSeed),
		strconv.Itoa(clusterFinalSeed),
		strconv.FormatFloat(clusterLinkage, 'g', -1, 64),
		strconv.Itoa(clusterKappa),
	})
	if err != nil {
		return nil, fmt.Errorf("getTermClusterReport %s: %w", listName, err)
	}

	var resp struct {
		Clusters []struct {
			Name    string  `xml:"name"`
			Score   float64 `xml:"score"`
			Records []struct {
				CategoryName   string  `xml:"categoryName"`
				TermName       string  `xml:"termName"`
				ListHits       int     `xml:"listHits"`
				Percent        float64 `xml:"percent"`
				Ease           float64 `xml:"ease"`
				GeneIds        string  `xml:"geneIds"`
				ListTotals     int     `xml:"listTotals"`
				PopHits        int     `xml:"popHits"`
				PopTotals      int     `xml:"popTotals"`
				FoldEnrichment float64 `xml:"foldEnrichment"`
				Bonferroni     float64 `xml:"bonferroni"`
				Benjamini      float64 `xml:"benjamini"`
				AFDR           float64 `xml:"afdr"`
			} `xml:"simpleChartRecords"`
		} `xml:"Body>getTermClusterReportResponse>return"`
	}
	if err := xml.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("getTermClusterReport %s: parse response: %w", listName, err)
	}

	report := &TermClusterReport{}
	for _, cl := range resp.Clusters {
		cluster := Cluster{Name: cl.Name, Score: cl.Score}
		for _, r := range cl.Records {
			cluster.Records = append(cluster.Records, ChartRecord{
				CategoryName:   r.CategoryName,
				TermName:       r.TermName,
				ListHits:       r.ListHits,
				Percent:        r.Percent,
				Ease:           r.Ease,
				GeneIds:        r.GeneIds,
				ListTotals:     r.ListTotals,
				PopHits:        r.PopHits,
				PopTotals:      r.PopTotals,
				FoldEnrichment: r.FoldEnrichment,
				Bonferroni:     r.Bonferroni,
				Benjamini:      r.Benjamini,
				AFDR:           r.AFDR,
			})
		}
		report.Clusters = append(report.Clusters, cluster)
	}

	return report, nil
}

// call POSTs one SOAP request and returns the raw response envelope.
// Arguments are serialized as Axis2 positional args0..argN elements.
func (c *SOAPClient) call(operation string, args []string) ([]byte, error) {

	var payload bytes.Buffer
	payload.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	payload.WriteString(`<soapenv:Envelope xmlns:soapenv="http://schemas.xmlsoap.org/soap/envelope/" xmlns:ser="` + soapNS + `">`)
	payload.WriteString(`<soapenv:Body><ser:` + operation + `>`)
	for i, arg := range args {
		fmt.Fprintf(&payload, "<args%d>", i)
		if err := xml.EscapeText(&payload, []byte(arg)); err != nil {
			return nil, err
		}
		fmt.Fprintf(&payload, "</args%d>", i)
	}
	payload.WriteString(`</ser:` + operation + `></soapenv:Body></soapenv:Envelope>`)

	req, err := http.NewRequest(http.MethodPost, c.endpoint, &payload)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", `text/xml; charset=utf-8`)
	req.Header.Set("SOAPAction", `"urn:`+operation+`"`)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if fault := parseFault(body); fault != "" {
		return nil, fmt.Errorf("SOAP fault: %s", fault)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("HTTP %s", resp.Status)
	}

	return body, nil
}

// parseFault returns the faultstring of a SOAP fault envelope, or ""
// when the response is not a fault.
func parseFault(body []byte) string {
	var env struct {
		Fault struct {
			Code   string `xml:"faultcode"`
			String string `xml:"faultstring"`
		} `xml:"Body>Fault"`
	}
	if err := xml.Unmarshal(body, &env); err != nil {
		return ""
	}
	return env.Fault.String
}
