// Package firestore maps liftlog records to and from Firestore documents.
package firestore

import (
	"cloud.google.com/go/firestore"
)

// Client wraps a Firestore client with the collection layout liftlog uses.
type Client struct {
	client *firestore.Client
}

func NewClient(client *firestore.Client) *Client {
	return &Client{client: client}
}

// Exercises is the per-user history collection, users/{uid}/exercises.
func (c *Client) Exercises(userID string) *firestore.CollectionRef {
	return c.client.Collection("users").Doc(userID).Collection("exercises")
}
