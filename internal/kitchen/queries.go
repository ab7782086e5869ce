package kitchen

// GraphQL documents sent by the tools. They stay literal on purpose so they can
// be pasted into the AppSync console unchanged.

const CreateRecipeMutation = `
mutation CreateRecipe($input: CreateRecipeInput!) {
    createRecipe(input: $input) {
        id
        title
        description
        ingredients
        instructions
        prepTime
        cookTime
        servings
        isPublic
    }
}`

const ListRecipesQuery = `
query ListRecipes {
    listRecipes {
        items {
            id
            title
            description
            ingredients
            instructions
            prepTime
            cookTime
            servings
            isPublic
        }
    }
}`

const GetRecipeQuery = `
query GetRecipe($id: ID!) {
    getRecipe(id: $id) {
        id
        title
        description
        ingredients
        instructions
        prepTime
        cookTime
        servings
        isPublic
    }
}`

const CreateConversationMutation = `
mutation CreateConversationSousChef {
    createConversationSousChef(input: {}) {
        id
        createdAt
        updatedAt
    }
}`

const GetConversationQuery = `
query GetConversationSousChef($id: ID!) {
    getConversationSousChef(id: $id) {
        id
        createdAt
        updatedAt
        messages {
            items {
                id
                role
                createdAt
                conversationId
                content {
                    text
                }
            }
        }
    }
}`

const ListConversationsQuery = `
query ListConversationSousChefs {
    listConversationSousChefs {
        items {
            id
            createdAt
            updatedAt
        }
    }
}`

const SendMessageMutation = `
mutation SendMessage($conversationId: ID!, $content: [AmplifyAIContentBlockInput!]!) {
    sousChef(conversationId: $conversationId, content: $content) {
        id
        content {
            text
        }
        role
        createdAt
    }
}`

const MutationIntrospectionQuery = `
query IntrospectionQuery {
    __schema {
        mutationType {
            fields {
                name
                description
                args {
                    name
                    type {
                        name
                        kind
                    }
                }
            }
        }
    }
}`
