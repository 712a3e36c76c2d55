package board

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/AndroIssaq/kian-table-touch-main-sub000/models"
)

// Event types
const (
	EventRequestUpdate = "request_update"
	EventRequestDelete = "request_delete"
	EventLoyaltyUpdate = "loyalty_update"
	EventMenuUpdate    = "menu_update"
	EventTableUpdate   = "table_update"
	EventStaffNotif    = "staff_notification"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// BoardHub holds every connected board client and serializes broadcasts to
// them.
type BoardHub struct {
	clients map[*websocket.Conn]string // conn -> role
	mutex   sync.Mutex
}

var boardHub = BoardHub{
	clients: make(map[*websocket.Conn]string),
}

// RegisterClient -> add a connection with its role
func RegisterClient(conn *websocket.Conn, role string) {
	boardHub.mutex.Lock()
	defer boardHub.mutex.Unlock()
	boardHub.clients[conn] = role
}

// UnregisterClient -> drop a connection
func UnregisterClient(conn *websocket.Conn) {
	boardHub.mutex.Lock()
	defer boardHub.mutex.Unlock()
	delete(boardHub.clients, conn)
	conn.Close()
}

// BroadcastRequestUpdate -> a waiter request was created or moved on the board
func BroadcastRequestUpdate(req models.ServiceRequest) {
	broadcast(Message{
		Event: EventRequestUpdate,
		Data:  req,
	})
}

// BroadcastRequestDelete -> a waiter request was soft-deleted
func BroadcastRequestDelete(id string) {
	broadcast(Message{
		Event: EventRequestDelete,
		Data:  map[string]string{"id": id},
	})
}

// BroadcastLoyaltyUpdate -> a loyalty account changed (accrual, redemption,
// approval correction)
func BroadcastLoyaltyUpdate(acct models.LoyaltyAccount) {
	broadcast(Message{
		Event: EventLoyaltyUpdate,
		Data:  acct,
	})
}

// BroadcastMenuUpdate -> a catalog item changed
func BroadcastMenuUpdate(item models.MenuItem) {
	broadcast(Message{
		Event: EventMenuUpdate,
		Data:  item,
	})
}

// BroadcastTableUpdate -> a table changed status
func BroadcastTableUpdate(table models.CafeTable) {
	broadcast(Message{
		Event: EventTableUpdate,
		Data:  table,
	})
}

// BroadcastStaffNotification -> plain text notice for staff clients
func BroadcastStaffNotification(message string) {
	broadcast(Message{
		Event: EventStaffNotif,
		Data:  message,
	})
}

// BroadcastMessage -> generic broadcast
func BroadcastMessage(msg Message) {
	broadcast(msg)
}

func broadcast(msg Message) {
	boardHub.mutex.Lock()
	defer boardHub.mutex.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return
	}

	for conn := range boardHub.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("Error sending message to client: %v", err)
			continue
		}
	}
}
