package network

const (
	MsgTypeHeartbeat = 1

	MsgTypeJoin = 101
	MsgTypeSeat = 102
	MsgTypePlay = 103
	MsgTypeNext = 104

	MsgTypePublicState = 301
	MsgTypePrivateInfo = 302
)
