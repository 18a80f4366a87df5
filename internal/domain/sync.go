package domain

// SyncResult summarizes one daily sync run. Forward failures are
// reported here and in logs only — they never abort the run.
type SyncResult struct {
	Date      string `json:"date"`
	Records   int    `json:"records_found"`
	Contacts  int    `json:"contacts"`
	Succeeded int    `json:"succeeded"`
	Failed    int    `json:"failed"`
}
