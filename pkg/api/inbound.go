package api

type (
	// Disposition is the terminal business outcome of an inbound lot
	Disposition string

	// InboundPayload is the business data of an inbound receipt instance
	InboundPayload struct {
		GrnNumber        string      `json:"grnNumber"`
		SupplierName     string      `json:"supplierName"`
		MaterialCode     string      `json:"materialCode"`
		QuantityReceived int         `json:"quantityReceived"`
		UOM              string      `json:"uom"`
		Serials          []string    `json:"serials,omitempty"`
		PassCount        int         `json:"passCount"`
		Disposition      Disposition `json:"disposition,omitempty"`
		QcRemarks        string      `json:"qcRemarks,omitempty"`
	}

	// CreateInboundRequest starts a new inbound receipt instance
	CreateInboundRequest struct {
		Receipt InboundPayload `json:"receipt"`
	}

	// InboundActionRequest advances an inbound instance by one action
	InboundActionRequest struct {
		InstanceID InstanceID `json:"instanceId"`
		ActorRole  Role       `json:"actorRole"`
	}

	// CompleteQcRequest resolves the QC inspection of an inbound lot
	CompleteQcRequest struct {
		InstanceID InstanceID `json:"instanceId"`
		ActorRole  Role       `json:"actorRole"`
		PassCount  int        `json:"passCount"`
		Remarks    string     `json:"remarks,omitempty"`
	}
)

// States of the inbound receipt flow
const (
	InboundStateReceipt       State = "RECEIPT"
	InboundStateSerialization State = "SERIALIZATION"
	InboundStateQC            State = "QC"
	InboundStateDisposition   State = "DISPOSITION"
)

// Actions of the inbound receipt flow
const (
	ActionSerialize  Action = "serialize"
	ActionSubmitQC   Action = "submit-qc"
	ActionCompleteQC Action = "complete-qc"
)

const (
	DispositionReleased Disposition = "Released"
	DispositionBlocked  Disposition = "Blocked"
	DispositionRejected Disposition = "Rejected"
)
