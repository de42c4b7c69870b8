package contract

// Argument keys the host adds to every call.
const (
	ParamContextPtr   = "__context_ptr__"
	ParamCreatorOrgID = "__creator_org_id__"
	ParamCreatorRole  = "__creator_role__"
	ParamCreatorPK    = "__creator_pk__"
	ParamSenderOrgID  = "__sender_org_id__"
	ParamSenderRole   = "__sender_role__"
	ParamSenderPK     = "__sender_pk__"
	ParamBlockHeight  = "__block_height__"
	ParamTxID         = "__tx_id__"
)

// RuntimeType identifies modules built with this SDK to the host.
const RuntimeType int32 = 4

// Body keys of the state, event and call operations.
const (
	keyKey          = "key"
	keyField        = "field"
	keyValue        = "value"
	keyTopic        = "topic"
	keyData         = "data"
	keyContractName = "contract_name"
	keyMethod       = "method"
	keyParam        = "param"

	keyStartKey   = "start_key"
	keyStartField = "start_field"
	keyLimitKey   = "limit_key"
	keyLimitField = "limit_field"
	keyRSIndex    = "rs_index"

	keySQL = "sql"
)
