package unbindable

//confbind:generate
type Settings struct { // want `Settings.Hook cannot be bound: func types cannot be bound` `Settings.Ch cannot be bound: channels cannot be bound`
	Port   int
	Hook   func()
	Ch     chan int
	Nested Nested
	Peer   *Settings
}

type Nested struct { // want `Nested.Pair cannot be bound: fixed-size arrays cannot be bound`
	Pair [2]int
}
