package roster

// RosterStore defines the interface for the squad's players and their parents.
type RosterStore interface {
	AddPlayer(player Player) (Player, error)
	AddParent(parent Parent) (Parent, error)
	DeletePlayer(playerID int64) error
	DeleteParent(parentID int64) error
	GetAllPlayers() ([]Player, error)
	GetAllParents() ([]Parent, error)
	GetPlayer(playerID int64) (*Player, error)
	GetParentsOf(playerID int64) ([]Parent, error)
	Subscribe(onChange func()) (unsubscribe func())
}
