package shopify

const productFields = `
  id
  title
  description
  handle
  priceRange { minVariantPrice { amount currencyCode } }
  images(first: 5) { edges { node { url altText } } }
  variants(first: 10) {
    edges {
      node {
        id
        title
        price { amount currencyCode }
        availableForSale
        selectedOptions { name value }
      }
    }
  }
  options { name values }
`

const productsQuery = `
query GetProducts($first: Int!) {
  products(first: $first) {
    edges { node {` + productFields + `} }
  }
}`

const productByHandleQuery = `
query GetProductByHandle($handle: String!) {
  productByHandle(handle: $handle) {` + productFields + `}
}`

const cartCreateMutation = `
mutation cartCreate($input: CartInput!) {
  cartCreate(input: $input) {
    cart { id checkoutUrl }
    userErrors { field message }
  }
}`
