/*
Package rabbitmq provides a RabbitMQ forwarder for the mediator.
It maps notification forwarding to AMQP topic-exchange publishes and includes
an auto-reconnect publisher.
*/
package rabbitmq
