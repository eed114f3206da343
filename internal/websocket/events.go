package websocket

type ScanEvent struct {
	Reference  string `json:"reference"`
	Outcome    string `json:"outcome"`
	Location   string `json:"location,omitempty"`
	WorkerID   uint   `json:"workerId,omitempty"`
	WorkerName string `json:"workerName,omitempty"`
	EmployeeID string `json:"employeeId,omitempty"`
	Timestamp  string `json:"timestamp"`
}

type SystemEvent struct {
	Message   string `json:"message"`
	Severity  string `json:"severity"`
	Source    string `json:"source"`
	Timestamp string `json:"timestamp"`
}

func (h *Hub) BroadcastScanEvent(scanEvent ScanEvent) {
	h.BroadcastToAdmins("scan_event", scanEvent)

	if scanEvent.WorkerID > 0 {
		h.BroadcastToUser(scanEvent.WorkerID, "scan_event", scanEvent)
	}
}

func (h *Hub) BroadcastSystemEvent(systemEvent SystemEvent, adminOnly bool) {
	if adminOnly {
		h.BroadcastToAdmins("system_event", systemEvent)
	} else {
		h.BroadcastToAll("system_event", systemEvent)
	}
}
