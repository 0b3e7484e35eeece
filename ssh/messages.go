// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ssh

import "math/big"

// Message ID constants, RFC 4253 section 12, RFC 4252 section 6, and RFC
// 4254 section 9.
const (
	msgDisconnect     = 1
	msgIgnore         = 2
	msgUnimplemented  = 3
	msgDebug          = 4
	msgServiceRequest = 5
	msgServiceAccept  = 6

	msgKexInit  = 20
	msgNewKeys  = 21
	msgKexDHInit  = 30
	msgKexDHReply = 31

	msgUserAuthRequest = 50
	msgUserAuthFailure = 51
	msgUserAuthSuccess = 52
	msgUserAuthBanner  = 53
	msgUserAuthPkOk    = 60

	msgGlobalRequest  = 80
	msgRequestSuccess = 81
	msgRequestFailure = 82

	msgChannelOpen         = 90
	msgChannelOpenConfirm  = 91
	msgChannelOpenFailure  = 92
	msgChannelWindowAdjust = 93
	msgChannelData         = 94
	msgChannelExtendedData = 95
	msgChannelEOF          = 96
	msgChannelClose        = 97
	msgChannelRequest      = 98
	msgChannelSuccess      = 99
	msgChannelFailure      = 100
)

// Message is the tagged union of every message this core can decode. The
// set is closed and small (§9), so dispatch is a plain switch on MsgType
// rather than a virtual hierarchy.
type Message interface {
	MsgType() byte
}

// unimplementedIDs are message IDs this core recognizes by number but
// does not parse the payload of (Open Question #3, §9): the decoder
// surfaces UnimplementedError so the caller can reply with
// SSH_MSG_UNIMPLEMENTED rather than panicking on an unknown field layout.
var unimplementedIDs = map[byte]bool{
	msgGlobalRequest:  true,
	msgChannelOpen:    true,
	msgChannelData:    true,
	msgChannelRequest: true,
}

// --- RFC 4253 transport messages ---

type DisconnectMsg struct {
	ReasonCode  uint32
	Description string
	Language    string
}

func (*DisconnectMsg) MsgType() byte { return msgDisconnect }

type IgnoreMsg struct {
	Data []byte
}

func (*IgnoreMsg) MsgType() byte { return msgIgnore }

// UnimplementedMsg is the reply the local side sends (or receives) for a
// message ID that was valid but not handled, per RFC 4253 section 11.4.
type UnimplementedMsg struct {
	SeqNum uint32
}

func (*UnimplementedMsg) MsgType() byte { return msgUnimplemented }

// NewUnimplementedReply builds the SSH_MSG_UNIMPLEMENTED reply a caller
// sends back after Decode rejects an incoming packet with an
// UnimplementedError, naming the sequence number of the packet being refused.
func NewUnimplementedReply(seqNum uint32) *UnimplementedMsg {
	return &UnimplementedMsg{SeqNum: seqNum}
}

type DebugMsg struct {
	AlwaysDisplay bool
	Message       string
	Language      string
}

func (*DebugMsg) MsgType() byte { return msgDebug }

type ServiceRequestMsg struct {
	Service string
}

func (*ServiceRequestMsg) MsgType() byte { return msgServiceRequest }

type ServiceAcceptMsg struct {
	Service string
}

func (*ServiceAcceptMsg) MsgType() byte { return msgServiceAccept }

// KexInitMsg is the algorithm-negotiation message of RFC 4253 section
// 7.1. InputBuf, when non-nil, is the byte-exact wire encoding this value
// was decoded from (message ID byte included); it must be retained until
// the exchange hash is computed (§3).
type KexInitMsg struct {
	Cookie                  [16]byte
	KexAlgos                []string
	ServerHostKeyAlgos      []string
	CiphersClientServer     []string
	CiphersServerClient     []string
	MACsClientServer        []string
	MACsServerClient        []string
	CompressionClientServer []string
	CompressionServerClient []string
	LanguagesClientServer   []string
	LanguagesServerClient   []string
	FirstKexPacketFollows   bool

	InputBuf []byte
}

func (*KexInitMsg) MsgType() byte { return msgKexInit }

type NewKeysMsg struct{}

func (*NewKeysMsg) MsgType() byte { return msgNewKeys }

// --- RFC 4253 section 8 Diffie-Hellman key exchange ---

type KexDHInitMsg struct {
	E *big.Int
}

func (*KexDHInitMsg) MsgType() byte { return msgKexDHInit }

type KexDHReplyMsg struct {
	HostKey   []byte // K_S, see §4.F.2
	F         *big.Int
	Signature []byte // signature blob, see §4.F.3
}

func (*KexDHReplyMsg) MsgType() byte { return msgKexDHReply }

// --- RFC 4252 user authentication ---

// UserAuthRequestMsg carries the common prefix of every authentication
// method. Payload holds the undecoded method-specific remainder for every
// method (empty for "none"); ParsePublicKeyAuthRequest,
// ParsePasswordAuthRequest and ParseHostbasedAuthRequest decode it into
// the method's own parsed form.
type UserAuthRequestMsg struct {
	User    string
	Service string
	Method  string
	Payload []byte
}

func (*UserAuthRequestMsg) MsgType() byte { return msgUserAuthRequest }

// PublicKeyAuthRequest is the parsed "publickey" method payload of RFC
// 4252 section 7.
type PublicKeyAuthRequest struct {
	HasSignature  bool
	Algorithm     string
	PublicKeyBlob []byte
	Signature     []byte // only present when HasSignature
}

// PasswordAuthRequest is the parsed "password" method payload of RFC
// 4252 section 8.
type PasswordAuthRequest struct {
	IsChange    bool
	OldPassword string // only present when IsChange
	Password    string
}

// HostbasedAuthRequest is the parsed "hostbased" method payload of RFC
// 4252 section 9.
type HostbasedAuthRequest struct {
	Algorithm string
	KeyBlob   []byte
	Hostname  string
	HostUser  string
	Signature []byte
}

// ParsePublicKeyAuthRequest decodes the method-specific payload of a
// UserAuthRequestMsg whose Method is "publickey".
func ParsePublicKeyAuthRequest(payload []byte) (*PublicKeyAuthRequest, error) {
	r := NewReader(payload)
	hasSig, err := r.ReadBool()
	if err != nil {
		return nil, err
	}
	algo, err := r.ReadCString()
	if err != nil {
		return nil, err
	}
	blob, err := r.ReadString()
	if err != nil {
		return nil, err
	}
	req := &PublicKeyAuthRequest{HasSignature: hasSig, Algorithm: algo, PublicKeyBlob: blob}
	if hasSig {
		sig, err := r.ReadString()
		if err != nil {
			return nil, err
		}
		req.Signature = sig
	}
	if r.Remaining() != 0 {
		return nil, malformed("trailing bytes in publickey request")
	}
	return req, nil
}

// EncodePublicKeyAuthRequest encodes the method-specific payload for a
// "publickey" UserAuthRequestMsg.
func EncodePublicKeyAuthRequest(req *PublicKeyAuthRequest) []byte {
	w := NewWriter().WriteBool(req.HasSignature).WriteCString(req.Algorithm).WriteString(req.PublicKeyBlob)
	if req.HasSignature {
		w.WriteString(req.Signature)
	}
	return w.Bytes()
}

// ParsePasswordAuthRequest decodes the method-specific payload of a
// UserAuthRequestMsg whose Method is "password".
func ParsePasswordAuthRequest(payload []byte) (*PasswordAuthRequest, error) {
	r := NewReader(payload)
	isChange, err := r.ReadBool()
	if err != nil {
		return nil, err
	}
	req := &PasswordAuthRequest{IsChange: isChange}
	if isChange {
		old, err := r.ReadCString()
		if err != nil {
			return nil, err
		}
		req.OldPassword = old
	}
	pw, err := r.ReadCString()
	if err != nil {
		return nil, err
	}
	req.Password = pw
	if r.Remaining() != 0 {
		return nil, malformed("trailing bytes in password request")
	}
	return req, nil
}

// EncodePasswordAuthRequest encodes the method-specific payload for a
// "password" UserAuthRequestMsg.
func EncodePasswordAuthRequest(req *PasswordAuthRequest) []byte {
	w := NewWriter().WriteBool(req.IsChange)
	if req.IsChange {
		w.WriteCString(req.OldPassword)
	}
	w.WriteCString(req.Password)
	return w.Bytes()
}

// ParseHostbasedAuthRequest decodes the method-specific payload of a
// UserAuthRequestMsg whose Method is "hostbased".
func ParseHostbasedAuthRequest(payload []byte) (*HostbasedAuthRequest, error) {
	r := NewReader(payload)
	algo, err := r.ReadCString()
	if err != nil {
		return nil, err
	}
	keyBlob, err := r.ReadString()
	if err != nil {
		return nil, err
	}
	hostname, err := r.ReadCString()
	if err != nil {
		return nil, err
	}
	hostuser, err := r.ReadCString()
	if err != nil {
		return nil, err
	}
	sig, err := r.ReadString()
	if err != nil {
		return nil, err
	}
	if r.Remaining() != 0 {
		return nil, malformed("trailing bytes in hostbased request")
	}
	return &HostbasedAuthRequest{
		Algorithm: algo,
		KeyBlob:   keyBlob,
		Hostname:  hostname,
		HostUser:  hostuser,
		Signature: sig,
	}, nil
}

// EncodeHostbasedAuthRequest encodes the method-specific payload for a
// "hostbased" UserAuthRequestMsg.
func EncodeHostbasedAuthRequest(req *HostbasedAuthRequest) []byte {
	return NewWriter().
		WriteCString(req.Algorithm).
		WriteString(req.KeyBlob).
		WriteCString(req.Hostname).
		WriteCString(req.HostUser).
		WriteString(req.Signature).
		Bytes()
}

type UserAuthFailureMsg struct {
	AllowedMethods []string
	PartialSuccess bool
}

func (*UserAuthFailureMsg) MsgType() byte { return msgUserAuthFailure }

type UserAuthSuccessMsg struct{}

func (*UserAuthSuccessMsg) MsgType() byte { return msgUserAuthSuccess }

type UserAuthBannerMsg struct {
	Message  string
	Language string
}

func (*UserAuthBannerMsg) MsgType() byte { return msgUserAuthBanner }

// UserAuthPkOkMsg is the server's response to a signature-less
// "publickey" probe (RFC 4252 section 7).
type UserAuthPkOkMsg struct {
	Algorithm     string
	PublicKeyBlob []byte
}

func (*UserAuthPkOkMsg) MsgType() byte { return msgUserAuthPkOk }

// --- RFC 4254 connection protocol: global requests and channels ---

type RequestSuccessMsg struct {
	Data []byte
}

func (*RequestSuccessMsg) MsgType() byte { return msgRequestSuccess }

type RequestFailureMsg struct{}

func (*RequestFailureMsg) MsgType() byte { return msgRequestFailure }

// RejectionReason is the RFC 4254 section 5.1 enumeration of why a
// channel open was refused.
type RejectionReason uint32

const (
	AdministrativelyProhibited RejectionReason = 1
	ConnectFailed              RejectionReason = 2
	UnknownChannelType         RejectionReason = 3
	ResourceShortage           RejectionReason = 4
)

type ChannelOpenConfirmMsg struct {
	PeersID       uint32
	MyID          uint32
	MyWindow      uint32
	MaxPacketSize uint32
}

func (*ChannelOpenConfirmMsg) MsgType() byte { return msgChannelOpenConfirm }

type ChannelOpenFailureMsg struct {
	PeersID  uint32
	Reason   RejectionReason
	Message  string
	Language string
}

func (*ChannelOpenFailureMsg) MsgType() byte { return msgChannelOpenFailure }

type ChannelWindowAdjustMsg struct {
	PeersID      uint32
	BytesToAdd   uint32
}

func (*ChannelWindowAdjustMsg) MsgType() byte { return msgChannelWindowAdjust }

type ChannelEOFMsg struct {
	PeersID uint32
}

func (*ChannelEOFMsg) MsgType() byte { return msgChannelEOF }

type ChannelCloseMsg struct {
	PeersID uint32
}

func (*ChannelCloseMsg) MsgType() byte { return msgChannelClose }

type ChannelSuccessMsg struct {
	PeersID uint32
}

func (*ChannelSuccessMsg) MsgType() byte { return msgChannelSuccess }

type ChannelFailureMsg struct {
	PeersID uint32
}

func (*ChannelFailureMsg) MsgType() byte { return msgChannelFailure }

// --- Encode ---

// Encode serializes msg to its wire form, the message ID byte followed
// by the RFC-defined fields for its variant.
func Encode(msg Message) []byte {
	w := NewWriter().WriteUint8(msg.MsgType())
	switch m := msg.(type) {
	case *DisconnectMsg:
		w.WriteUint32(m.ReasonCode).WriteCString(m.Description).WriteCString(m.Language)
	case *IgnoreMsg:
		w.WriteString(m.Data)
	case *UnimplementedMsg:
		w.WriteUint32(m.SeqNum)
	case *DebugMsg:
		w.WriteBool(m.AlwaysDisplay).WriteCString(m.Message).WriteCString(m.Language)
	case *ServiceRequestMsg:
		w.WriteCString(m.Service)
	case *ServiceAcceptMsg:
		w.WriteCString(m.Service)
	case *KexInitMsg:
		encodeKexInit(w, m)
	case *NewKeysMsg:
		// no payload
	case *KexDHInitMsg:
		w.WriteMPInt(m.E)
	case *KexDHReplyMsg:
		w.WriteString(m.HostKey).WriteMPInt(m.F).WriteString(m.Signature)
	case *UserAuthRequestMsg:
		w.WriteCString(m.User).WriteCString(m.Service).WriteCString(m.Method).WriteRaw(m.Payload)
	case *UserAuthFailureMsg:
		w.WriteNameList(m.AllowedMethods).WriteBool(m.PartialSuccess)
	case *UserAuthSuccessMsg:
		// no payload
	case *UserAuthBannerMsg:
		w.WriteCString(m.Message).WriteCString(m.Language)
	case *UserAuthPkOkMsg:
		w.WriteCString(m.Algorithm).WriteString(m.PublicKeyBlob)
	case *RequestSuccessMsg:
		w.WriteRaw(m.Data)
	case *RequestFailureMsg:
		// no payload
	case *ChannelOpenConfirmMsg:
		w.WriteUint32(m.PeersID).WriteUint32(m.MyID).WriteUint32(m.MyWindow).WriteUint32(m.MaxPacketSize)
	case *ChannelOpenFailureMsg:
		w.WriteUint32(m.PeersID).WriteUint32(uint32(m.Reason)).WriteCString(m.Message).WriteCString(m.Language)
	case *ChannelWindowAdjustMsg:
		w.WriteUint32(m.PeersID).WriteUint32(m.BytesToAdd)
	case *ChannelEOFMsg:
		w.WriteUint32(m.PeersID)
	case *ChannelCloseMsg:
		w.WriteUint32(m.PeersID)
	case *ChannelSuccessMsg:
		w.WriteUint32(m.PeersID)
	case *ChannelFailureMsg:
		w.WriteUint32(m.PeersID)
	default:
		panic("ssh: Encode called on unrecognized message type")
	}
	return w.Bytes()
}

func encodeKexInit(w *Writer, m *KexInitMsg) {
	w.WriteRaw(m.Cookie[:])
	w.WriteNameList(m.KexAlgos)
	w.WriteNameList(m.ServerHostKeyAlgos)
	w.WriteNameList(m.CiphersClientServer)
	w.WriteNameList(m.CiphersServerClient)
	w.WriteNameList(m.MACsClientServer)
	w.WriteNameList(m.MACsServerClient)
	w.WriteNameList(m.CompressionClientServer)
	w.WriteNameList(m.CompressionServerClient)
	w.WriteNameList(m.LanguagesClientServer)
	w.WriteNameList(m.LanguagesServerClient)
	w.WriteBool(m.FirstKexPacketFollows)
	w.WriteUint32(0) // reserved
}

// --- Decode ---

// Decode parses a single message from packet, which must contain exactly
// one message's worth of bytes (as handed over by the packet-framing
// collaborator). It returns the decoded message and the number of bytes
// consumed, which always equals len(packet) on success since a framed
// payload carries no trailing data of its own.
//
// An ID outside the set this core parses the payload of returns
// UnimplementedError so the caller can reply with SSH_MSG_UNIMPLEMENTED.
func Decode(packet []byte) (Message, int, error) {
	if len(packet) == 0 {
		return nil, 0, malformed("empty packet")
	}
	id := packet[0]
	if unimplementedIDs[id] {
		return nil, 0, unimplemented(id)
	}

	r := NewReader(packet[1:])
	msg, err := decodeBody(id, r)
	if err != nil {
		return nil, 0, err
	}
	if r.Remaining() != 0 {
		return nil, 0, malformed("trailing bytes after message")
	}
	if id == msgKexInit {
		msg.(*KexInitMsg).InputBuf = packet
	}
	return msg, len(packet), nil
}

func decodeBody(id byte, r *Reader) (Message, error) {
	switch id {
	case msgDisconnect:
		m := &DisconnectMsg{}
		var err error
		if m.ReasonCode, err = r.ReadUint32(); err != nil {
			return nil, err
		}
		if m.Description, err = r.ReadCString(); err != nil {
			return nil, err
		}
		if m.Language, err = r.ReadCString(); err != nil {
			return nil, err
		}
		return m, nil
	case msgIgnore:
		data, err := r.ReadString()
		if err != nil {
			return nil, err
		}
		return &IgnoreMsg{Data: data}, nil
	case msgUnimplemented:
		seq, err := r.ReadUint32()
		if err != nil {
			return nil, err
		}
		return &UnimplementedMsg{SeqNum: seq}, nil
	case msgDebug:
		m := &DebugMsg{}
		var err error
		if m.AlwaysDisplay, err = r.ReadBool(); err != nil {
			return nil, err
		}
		if m.Message, err = r.ReadCString(); err != nil {
			return nil, err
		}
		if m.Language, err = r.ReadCString(); err != nil {
			return nil, err
		}
		return m, nil
	case msgServiceRequest:
		s, err := r.ReadCString()
		if err != nil {
			return nil, err
		}
		return &ServiceRequestMsg{Service: s}, nil
	case msgServiceAccept:
		s, err := r.ReadCString()
		if err != nil {
			return nil, err
		}
		return &ServiceAcceptMsg{Service: s}, nil
	case msgKexInit:
		return decodeKexInit(r)
	case msgNewKeys:
		return &NewKeysMsg{}, nil
	case msgKexDHInit:
		e, err := r.ReadMPInt()
		if err != nil {
			return nil, err
		}
		return &KexDHInitMsg{E: e}, nil
	case msgKexDHReply:
		m := &KexDHReplyMsg{}
		var err error
		if m.HostKey, err = r.ReadString(); err != nil {
			return nil, err
		}
		if m.F, err = r.ReadMPInt(); err != nil {
			return nil, err
		}
		if m.Signature, err = r.ReadString(); err != nil {
			return nil, err
		}
		return m, nil
	case msgUserAuthRequest:
		m := &UserAuthRequestMsg{}
		var err error
		if m.User, err = r.ReadCString(); err != nil {
			return nil, err
		}
		if m.Service, err = r.ReadCString(); err != nil {
			return nil, err
		}
		if m.Method, err = r.ReadCString(); err != nil {
			return nil, err
		}
		m.Payload = r.buf[r.off:]
		r.off = len(r.buf)
		return m, nil
	case msgUserAuthFailure:
		m := &UserAuthFailureMsg{}
		var err error
		if m.AllowedMethods, err = r.ReadNameList(); err != nil {
			return nil, err
		}
		if m.PartialSuccess, err = r.ReadBool(); err != nil {
			return nil, err
		}
		return m, nil
	case msgUserAuthSuccess:
		return &UserAuthSuccessMsg{}, nil
	case msgUserAuthBanner:
		m := &UserAuthBannerMsg{}
		var err error
		if m.Message, err = r.ReadCString(); err != nil {
			return nil, err
		}
		if m.Language, err = r.ReadCString(); err != nil {
			return nil, err
		}
		return m, nil
	case msgUserAuthPkOk:
		m := &UserAuthPkOkMsg{}
		var err error
		if m.Algorithm, err = r.ReadCString(); err != nil {
			return nil, err
		}
		if m.PublicKeyBlob, err = r.ReadString(); err != nil {
			return nil, err
		}
		return m, nil
	case msgRequestSuccess:
		data := r.buf[r.off:]
		r.off = len(r.buf)
		return &RequestSuccessMsg{Data: data}, nil
	case msgRequestFailure:
		return &RequestFailureMsg{}, nil
	case msgChannelOpenConfirm:
		m := &ChannelOpenConfirmMsg{}
		var err error
		if m.PeersID, err = r.ReadUint32(); err != nil {
			return nil, err
		}
		if m.MyID, err = r.ReadUint32(); err != nil {
			return nil, err
		}
		if m.MyWindow, err = r.ReadUint32(); err != nil {
			return nil, err
		}
		if m.MaxPacketSize, err = r.ReadUint32(); err != nil {
			return nil, err
		}
		return m, nil
	case msgChannelOpenFailure:
		m := &ChannelOpenFailureMsg{}
		var err error
		if m.PeersID, err = r.ReadUint32(); err != nil {
			return nil, err
		}
		var reason uint32
		if reason, err = r.ReadUint32(); err != nil {
			return nil, err
		}
		m.Reason = RejectionReason(reason)
		if m.Message, err = r.ReadCString(); err != nil {
			return nil, err
		}
		if m.Language, err = r.ReadCString(); err != nil {
			return nil, err
		}
		return m, nil
	case msgChannelWindowAdjust:
		m := &ChannelWindowAdjustMsg{}
		var err error
		if m.PeersID, err = r.ReadUint32(); err != nil {
			return nil, err
		}
		if m.BytesToAdd, err = r.ReadUint32(); err != nil {
			return nil, err
		}
		return m, nil
	case msgChannelEOF:
		id, err := r.ReadUint32()
		if err != nil {
			return nil, err
		}
		return &ChannelEOFMsg{PeersID: id}, nil
	case msgChannelClose:
		id, err := r.ReadUint32()
		if err != nil {
			return nil, err
		}
		return &ChannelCloseMsg{PeersID: id}, nil
	case msgChannelSuccess:
		id, err := r.ReadUint32()
		if err != nil {
			return nil, err
		}
		return &ChannelSuccessMsg{PeersID: id}, nil
	case msgChannelFailure:
		id, err := r.ReadUint32()
		if err != nil {
			return nil, err
		}
		return &ChannelFailureMsg{PeersID: id}, nil
	default:
		return nil, unimplemented(id)
	}
}

func decodeKexInit(r *Reader) (Message, error) {
	m := &KexInitMsg{}
	cookie, err := r.ReadRaw(16)
	if err != nil {
		return nil, err
	}
	copy(m.Cookie[:], cookie)

	fields := []*[]string{
		&m.KexAlgos, &m.ServerHostKeyAlgos,
		&m.CiphersClientServer, &m.CiphersServerClient,
		&m.MACsClientServer, &m.MACsServerClient,
		&m.CompressionClientServer, &m.CompressionServerClient,
		&m.LanguagesClientServer, &m.LanguagesServerClient,
	}
	for _, f := range fields {
		list, err := r.ReadNameList()
		if err != nil {
			return nil, err
		}
		*f = list
	}

	if m.FirstKexPacketFollows, err = r.ReadBool(); err != nil {
		return nil, err
	}
	if _, err = r.ReadUint32(); err != nil { // reserved
		return nil, err
	}
	return m, nil
}
