package api

type (
	// InstanceID is a unique identifier for a flow instance
	InstanceID string

	// FlowType identifies one business process type
	FlowType string

	// State is a named state within a flow definition
	State string

	// Action is a named transition trigger within a flow definition
	Action string

	// Role is an actor category gating which transitions it may execute
	Role string

	// DerivedField names an identifier minted exactly once when an instance
	// reaches a specific state
	DerivedField string
)

const (
	FlowSKU      FlowType = "sku"
	FlowBatch    FlowType = "batch"
	FlowInbound  FlowType = "inbound"
	FlowFinalQA  FlowType = "final-qa"
	FlowDispatch FlowType = "dispatch"
)

const (
	RoleMaker      Role = "Maker"
	RoleChecker    Role = "Checker"
	RoleApprover   Role = "Approver"
	RoleStores     Role = "Stores"
	RoleQA         Role = "QA"
	RoleSupervisor Role = "Supervisor"
	RoleProduction Role = "Production"
	RoleLogistics  Role = "Logistics"
)

const (
	// DerivedBatteryID is minted when a final QA decision approves a pack
	DerivedBatteryID DerivedField = "battery_id"

	// DerivedConsignmentNote is minted when a dispatch instance ships
	DerivedConsignmentNote DerivedField = "consignment_note"
)
