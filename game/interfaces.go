package game

import "time"

// NetworkSession is the transport seam: anything that can carry framed
// messages to and from one client.
type NetworkSession interface {
	Close()
	Write(data []byte) error
	Read() ([]byte, error)
	Ping() error
}

type Player interface {
	Id() string
	Send(data []byte) error
	Ping() error
	CancelAndRelease()
}

type Room interface {
	Send(e clientPacketEnvelope)
	RequestJoin(jreq roomJoinRequest)
	RemoveMe(p Player)
	Tick(now time.Time)
	GameLoop()
	CloseAndRelease()
}

type Hub interface {
	RemoveRoom(roomId string)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) (bool, error)
}

type PeriodicTickerChannelCreator interface {
	Create(duration time.Duration) <-chan time.Time
}
